package apod

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"apodweb"
	"apodweb/pkg/consts"
)

// Normalize turns a raw APOD payload into a Picture ready for display.
// The payload is kept as it is, credit, is_image and nasa_url are added on top.
// Only url, and date for random pictures, are required.
func Normalize(mode Mode, raw []byte) (*apodweb.Picture, error) {
	// Picture decodes the payload as a JSON object and tolerates
	// unexpected types in the fields it copies out
	var p apodweb.Picture
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Kind: MalformedPayload, Cause: err}
	}

	if p.URL == "" {
		return nil, &Error{Kind: MalformedPayload, Cause: errors.New("payload has no url")}
	}

	// copyright is only sent for works that are not in the public domain
	if p.Copyright != "" {
		p.Credit = consts.CreditCopyright + p.Copyright
	} else {
		p.Credit = consts.CreditNASA
	}

	// some responses come without media_type, so the url is checked as well
	p.IsImage = p.MediaType == consts.MediaImage || hasImageExtension(p.URL)

	if mode == Random {
		// the service may answer with another date than the one requested,
		// the page is built from what it returned
		d, err := time.Parse(consts.TimeFormat, p.Date)
		if err != nil {
			return nil, &Error{Kind: MalformedPayload, Cause: fmt.Errorf("payload date %q: %w", p.Date, err)}
		}
		p.NasaURL = consts.NasaPageURL + "ap" + d.Format(consts.FileDateFormat) + ".html"
	} else {
		p.NasaURL = consts.NasaPageURL
	}

	return &p, nil
}

func hasImageExtension(u string) bool {
	for _, ext := range consts.ImageExtensions {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return false
}

// DisplayDate formats an entry date as "Monday, February 1, 2016".
// Dates that do not parse are returned untouched.
func DisplayDate(date string) string {
	d, err := time.Parse(consts.TimeFormat, date)
	if err != nil {
		return date
	}
	return d.Format(consts.DisplayFormat)
}
