package apodweb

import (
	"encoding/json"
)

// Picture is a single APOD entry prepared for display.
//
// The upstream fields are decoded into the typed fields below, the derived
// fields (Credit, IsImage, NasaURL) are filled by the normalizer. RAW keeps the
// payload exactly as it came from the service so that nothing is lost when the
// entry is encoded again.
type Picture struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
	ThumbURL    string `json:"thumbnail_url"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright"`
	Explanation string `json:"explanation"`

	Credit  string `json:"credit"`
	IsImage bool   `json:"is_image"`
	NasaURL string `json:"nasa_url"`

	RAW json.RawMessage `json:"-"`
}

// MarshalJSON writes the upstream payload with the derived fields laid over it.
// Entries built without a payload (favorites submitted by a form) fall back to
// the typed fields.
func (p Picture) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)

	if len(p.RAW) > 0 {
		if err := json.Unmarshal(p.RAW, &fields); err != nil {
			return nil, err
		}
	} else {
		known := map[string]string{
			"date":          p.Date,
			"title":         p.Title,
			"url":           p.URL,
			"hdurl":         p.HDURL,
			"thumbnail_url": p.ThumbURL,
			"media_type":    p.MediaType,
			"copyright":     p.Copyright,
			"explanation":   p.Explanation,
		}
		for k, v := range known {
			if v == "" {
				continue
			}
			if err := setField(fields, k, v); err != nil {
				return nil, err
			}
		}
	}

	if err := setField(fields, "credit", p.Credit); err != nil {
		return nil, err
	}
	if err := setField(fields, "is_image", p.IsImage); err != nil {
		return nil, err
	}
	if err := setField(fields, "nasa_url", p.NasaURL); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

// UnmarshalJSON decodes an entry and remembers the payload it came from.
// Only a payload that is not a JSON object is an error: fields with an
// unexpected type are left empty.
func (p *Picture) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = Picture{
		Date:        stringField(fields, "date"),
		Title:       stringField(fields, "title"),
		URL:         stringField(fields, "url"),
		HDURL:       stringField(fields, "hdurl"),
		ThumbURL:    stringField(fields, "thumbnail_url"),
		MediaType:   stringField(fields, "media_type"),
		Copyright:   stringField(fields, "copyright"),
		Explanation: stringField(fields, "explanation"),
		Credit:      stringField(fields, "credit"),
		NasaURL:     stringField(fields, "nasa_url"),
		RAW:         append(json.RawMessage(nil), data...),
	}

	if raw, ok := fields["is_image"]; ok {
		json.Unmarshal(raw, &p.IsImage)
	}

	return nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := fields[name]; ok {
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
	}
	return s
}

func setField(fields map[string]json.RawMessage, name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fields[name] = raw
	return nil
}
