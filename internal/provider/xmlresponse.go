package provider

import (
	"encoding/xml"
	"fmt"
	"html"
	"sort"
	"strconv"
)

// dataXML is the <Data> root of every ScreenScraper response.
type dataXML struct {
	XMLName xml.Name  `xml:"Data"`
	Jeu     *jeuXML   `xml:"jeu"`
	Jeux    *jeuxXML  `xml:"jeux"`
	SSUser  *ssUserXML `xml:"ssuser"`
}

type jeuxXML struct {
	Jeux []jeuXML `xml:"jeu"`
}

type jeuXML struct {
	ID        string       `xml:"id,attr"`
	Noms      *nomsXML     `xml:"noms"`
	Synopsis  *synopsisXML `xml:"synopsis"`
	Dates     *datesXML    `xml:"dates"`
	Genres    *genresXML   `xml:"genres"`
	Developer nameTextXML  `xml:"developpeur"`
	Publisher nameTextXML  `xml:"editeur"`
	Players   nameTextXML  `xml:"joueurs"`
	Note      nameTextXML  `xml:"note"`
	Medias    *mediasXML   `xml:"medias"`
	Rom       *romXML      `xml:"rom"`
}

// romXML carries the matched file's own reported size, present on a
// hash-matched jeuInfos.php response; search results rarely include it.
type romXML struct {
	Size string `xml:"romtaille"`
}

type nomsXML struct {
	Noms []regionTextXML `xml:"nom"`
}

type regionTextXML struct {
	Region string `xml:"region,attr"`
	Text   string `xml:",chardata"`
}

type synopsisXML struct {
	Items []langTextXML `xml:"synopsis"`
}

type langTextXML struct {
	Lang string `xml:"langue,attr"`
	Text string `xml:",chardata"`
}

type datesXML struct {
	Dates []regionTextXML `xml:"date"`
}

type genresXML struct {
	Genres []genreXML `xml:"genre"`
}

type genreXML struct {
	ID        string `xml:"id,attr"`
	Principale string `xml:"principale,attr"`
	Lang      string `xml:"langue,attr"`
	Text      string `xml:",chardata"`
}

type nameTextXML struct {
	Text string `xml:",chardata"`
}

type mediasXML struct {
	Media []mediaXML `xml:"media"`
}

type mediaXML struct {
	Type   string `xml:"type,attr"`
	Format string `xml:"format,attr"`
	Region string `xml:"region,attr"`
	Text   string `xml:",chardata"`
}

type ssUserXML struct {
	ID                string `xml:"id"`
	Niveau            string `xml:"niveau"`
	MaxThreads        string `xml:"maxthreads"`
	MaxRequestsPerMin string `xml:"maxrequestspermin"`
	RequestsToday     string `xml:"requeststoday"`
	MaxRequestsPerDay string `xml:"maxrequestsperday"`
}

// parseDataEnvelope unmarshals the <Data> root common to every
// endpoint. An empty or non-XML body is a TransportError (caller
// decides whether it's retryable-then-demoted, per §error-handling).
func parseDataEnvelope(body []byte) (dataXML, error) {
	if len(body) == 0 {
		return dataXML{}, &TransportError{Op: "parse response", Err: fmt.Errorf("empty response body")}
	}
	var doc dataXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return dataXML{}, &TransportError{Op: "parse response", Err: fmt.Errorf("malformed XML: %w", err)}
	}
	return doc, nil
}

// parseGameInfoResponse extracts the single-game answer from
// jeuInfos.php. No <jeu> element means the game wasn't found.
func parseGameInfoResponse(body []byte, preferredLanguage string) (GameInfo, error) {
	doc, err := parseDataEnvelope(body)
	if err != nil {
		return GameInfo{}, err
	}
	if doc.Jeu == nil {
		return GameInfo{}, &NotFoundError{StatusCode: 200, Message: "game not found in database"}
	}
	return doc.Jeu.toGameInfo(preferredLanguage), nil
}

// parseSearchResponse extracts the candidate list from jeuRecherche.php.
// An absent <jeux> container yields zero results, not an error: the
// caller's confidence scorer (C8) handles the empty-result case.
func parseSearchResponse(body []byte, preferredLanguage string) ([]GameInfo, error) {
	doc, err := parseDataEnvelope(body)
	if err != nil {
		return nil, err
	}
	if doc.Jeux == nil {
		return nil, nil
	}
	results := make([]GameInfo, 0, len(doc.Jeux.Jeux))
	for _, j := range doc.Jeux.Jeux {
		results = append(results, j.toGameInfo(preferredLanguage))
	}
	return results, nil
}

// parseUserInfoResponse extracts account limits from ssuserInfos.php.
func parseUserInfoResponse(body []byte) (UserInfo, error) {
	doc, err := parseDataEnvelope(body)
	if err != nil {
		return UserInfo{}, err
	}
	if doc.SSUser == nil {
		return UserInfo{}, &TransportError{Op: "parse user info", Err: fmt.Errorf("no ssuser element in response")}
	}
	return doc.SSUser.toUserInfo(), nil
}

func (j jeuXML) toGameInfo(preferredLanguage string) GameInfo {
	info := GameInfo{ID: j.ID}

	if j.Noms != nil {
		info.Names = make(map[string]string, len(j.Noms.Noms))
		for _, n := range j.Noms.Noms {
			if n.Text != "" {
				region := n.Region
				if region == "" {
					region = "wor"
				}
				info.Names[region] = html.UnescapeString(n.Text)
			}
		}
	}

	if j.Synopsis != nil {
		info.Descriptions = make(map[string]string, len(j.Synopsis.Items))
		for _, s := range j.Synopsis.Items {
			if s.Text != "" {
				lang := s.Lang
				if lang == "" {
					lang = "en"
				}
				info.Descriptions[lang] = html.UnescapeString(s.Text)
			}
		}
	}

	if j.Dates != nil {
		info.ReleaseDates = make(map[string]string, len(j.Dates.Dates))
		for _, d := range j.Dates.Dates {
			if d.Text != "" {
				region := d.Region
				if region == "" {
					region = "wor"
				}
				info.ReleaseDates[region] = d.Text
			}
		}
	}

	if j.Genres != nil {
		info.Genres = extractGenres(j.Genres.Genres, preferredLanguage)
	}

	if j.Developer.Text != "" {
		info.Developer = html.UnescapeString(j.Developer.Text)
	}
	if j.Publisher.Text != "" {
		info.Publisher = html.UnescapeString(j.Publisher.Text)
	}
	if j.Players.Text != "" {
		info.Players = j.Players.Text
	}
	if j.Note.Text != "" {
		if r, err := strconv.ParseFloat(j.Note.Text, 64); err == nil {
			info.Rating = &r
		}
	}

	if j.Rom != nil {
		if size, err := strconv.ParseInt(j.Rom.Size, 10, 64); err == nil {
			info.RomSizeBytes = &size
		}
	}

	if j.Medias != nil {
		info.Media = make([]MediaItem, 0, len(j.Medias.Media))
		for _, m := range j.Medias.Media {
			if m.Type == "" || m.Text == "" {
				continue
			}
			info.Media = append(info.Media, MediaItem{
				Type: m.Type, URL: m.Text, Format: m.Format, Region: m.Region,
			})
		}
	}

	return info
}

// extractGenres takes only principale="1" genres, preferring
// preferredLanguage, falling back to English, then to any language,
// deduping by genre id and returning in id order for determinism.
func extractGenres(genres []genreXML, preferredLanguage string) []string {
	primary := make([]genreXML, 0, len(genres))
	for _, g := range genres {
		if g.Principale == "1" {
			primary = append(primary, g)
		}
	}

	pick := func(lang string) map[string]string {
		byID := map[string]string{}
		for _, g := range primary {
			if g.Lang == lang && g.ID != "" && g.Text != "" {
				if _, seen := byID[g.ID]; !seen {
					byID[g.ID] = html.UnescapeString(g.Text)
				}
			}
		}
		return byID
	}

	byID := pick(preferredLanguage)
	if len(byID) == 0 && preferredLanguage != "en" {
		byID = pick("en")
	}
	if len(byID) == 0 {
		byID = map[string]string{}
		for _, g := range primary {
			if g.ID != "" && g.Text != "" {
				if _, seen := byID[g.ID]; !seen {
					byID[g.ID] = html.UnescapeString(g.Text)
				}
			}
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

func (u ssUserXML) toUserInfo() UserInfo {
	return UserInfo{
		ID:                u.ID,
		Level:             atoiOr(u.Niveau, 0),
		MaxThreads:        atoiOr(u.MaxThreads, 1),
		MaxRequestsPerMin: atoiOr(u.MaxRequestsPerMin, 0),
		RequestsToday:     atoiOr(u.RequestsToday, 0),
		MaxRequestsPerDay: atoiOr(u.MaxRequestsPerDay, 0),
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
