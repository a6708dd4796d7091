package provider

import "net/url"

// Credentials are the ScreenScraper developer + user identity required
// on every request. Held in plaintext here, copied as-is from the config
// file's provider fields; request logging redacts the password fields.
type Credentials struct {
	DevID        string
	DevPassword  string
	SoftwareName string
	UserID       string
	UserPassword string
}

func (c Credentials) queryValues() url.Values {
	v := url.Values{}
	v.Set("devid", c.DevID)
	v.Set("devpassword", c.DevPassword)
	v.Set("softname", c.SoftwareName)
	v.Set("ssid", c.UserID)
	v.Set("sspassword", c.UserPassword)
	v.Set("output", "xml")
	return v
}

// redact returns a copy of v with both password fields replaced, safe
// to log at any verbosity.
func redact(v url.Values) url.Values {
	redacted := url.Values{}
	for key, vals := range v {
		if key == "devpassword" || key == "sspassword" {
			redacted.Set(key, "redacted")
			continue
		}
		redacted[key] = vals
	}
	return redacted
}
