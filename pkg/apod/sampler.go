package apod

import (
	"math/rand"
	"net/url"
	"time"

	"apodweb/pkg/consts"
)

var epochStart = mustParseDate(consts.EpochStart)

// Sampler resolves the query parameters for a picture request.
type Sampler struct {
	now    func() time.Time
	int63n func(int64) int64
}

// NewSampler returns a Sampler driven by the wall clock and the global random source.
func NewSampler() *Sampler {
	return &Sampler{
		now:    time.Now,
		int63n: rand.Int63n,
	}
}

// RandomDate picks a date between the first APOD and yesterday, formatted as YYYY-MM-DD.
// The range is taken from the clock on every call.
func (s *Sampler) RandomDate() string {
	yesterday := s.now().UTC().AddDate(0, 0, -1)

	span := yesterday.Sub(epochStart).Milliseconds()
	if span <= 0 {
		return epochStart.Format(consts.TimeFormat)
	}

	offset := time.Duration(s.int63n(span)) * time.Millisecond
	return epochStart.Add(offset).Format(consts.TimeFormat)
}

// Query builds the upstream query. The date is only sent for random pictures,
// the service answers with the current entry otherwise.
func (s *Sampler) Query(mode Mode, key string) url.Values {
	q := url.Values{}
	q.Set(consts.ParamApiKey, key)

	if mode == Random {
		q.Set(consts.ParamDate, s.RandomDate())
	}

	return q
}

// IsValidDate checks the date is formatted as YYYY-MM-DD and is not before the first APOD.
func IsValidDate(date string) bool {
	d, err := time.Parse(consts.TimeFormat, date)
	if err != nil {
		return false
	}

	return !d.Before(epochStart)
}

func mustParseDate(date string) time.Time {
	d, err := time.Parse(consts.TimeFormat, date)
	if err != nil {
		panic(err)
	}
	return d
}
