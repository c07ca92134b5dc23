package repository

import (
	"apodweb"
	"context"
	"sync"
)

// Memory keeps favorites for the life of the process.
type Memory struct {
	sync.RWMutex
	sessions map[string][]apodweb.Picture
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string][]apodweb.Picture),
	}
}

func (m *Memory) Add(_ context.Context, id string, p *apodweb.Picture) (bool, error) {
	m.Lock()
	defer m.Unlock()

	for _, fav := range m.sessions[id] {
		if fav.Date == p.Date {
			return false, nil
		}
	}

	m.sessions[id] = append(m.sessions[id], *p)
	return true, nil
}

func (m *Memory) List(_ context.Context, id string) ([]apodweb.Picture, error) {
	m.RLock()
	defer m.RUnlock()

	list := make([]apodweb.Picture, len(m.sessions[id]))
	copy(list, m.sessions[id])
	return list, nil
}
