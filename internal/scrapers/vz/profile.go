package vz

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"vzchat-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	sel_profile_content    = "#content"
	sel_profile_text       = ".view_profile_text"
	sel_profile_descriptor = ".view_profile_text b"
	sel_profile_image      = ".view_profile_pic img"
	sel_profile_groups     = `.view_profile_text a[href^="view_groups.php?id="]`
	sel_profile_write_id   = `form[action="msg_write.php"] input[name="id"]`
)

// ex. "Pagan666, weiblich aus  Nordrhein-Westfalen"
var profileDescriptorRegex = regexp.MustCompile(`(?i)^(.*?), (weiblich|männlich|pärchen) aus\s*(.*)$`)

var (
	profileOrientationRegex = regexp.MustCompile(`Orientierung: ([^<]*)`)
	profileAgeRegex         = regexp.MustCompile(`Alter: (\d+)`)
	profileAlignmentRegex   = regexp.MustCompile(`Ausrichtung: ([^<]*)`)
	profileGroupIdRegex     = regexp.MustCompile(`id=(\d+)`)
)

// ex. "Schreibt: 60,5 % an weiblich"
var profileWritesToRegex = regexp.MustCompile(`(?i)(?:Schreibt:\s*)?([\d.,]+)\s*%\s*an\s+(männlich|weiblich|pärchen)`)

// profileTypeFromToken maps the site's gender words to a ProfileType, ok is
// false for anything else.
func profileTypeFromToken(token string) (ProfileType, bool) {
	token = strings.ToLower(token)
	switch {
	case strings.Contains(token, "weiblich"):
		return PROFILE_FEMALE, true
	case strings.Contains(token, "männlich"):
		return PROFILE_MALE, true
	case strings.Contains(token, "pärchen"):
		return PROFILE_COUPLE, true
	}
	return "", false
}

// Profile scrapes the profile page of the user with the given id.
func (c *Client) Profile(ctx context.Context, session Session, id string) (Profile, error) {
	endpoint := endpoint_profile + "?" + url.Values{"c": {id}}.Encode()
	doc, err := c.fetchDocument(ctx, session, endpoint, report_client_profile)
	if err != nil {
		return Profile{}, err
	}
	return c.parseProfile(doc, id)
}

func (c *Client) parseProfile(doc *goquery.Document, requestedId string) (Profile, error) {
	content := doc.Find(sel_profile_content).First()
	if content.Length() == 0 {
		c.tel.ReportWarning(report_client_profile, "content not found", requestedId)
		return Profile{}, ErrMissingContent
	}

	profile := Profile{
		Type:             PROFILE_MALE,
		GroupMemberships: []GroupMembership{},
	}

	descriptor := content.Find(sel_profile_descriptor).First()
	if descriptor.Length() > 0 {
		username, profileType, location, ok := parseProfileDescriptor(htmlutil.TextOf(descriptor))
		if ok {
			profile.Username = username
			profile.Type = profileType
			profile.Location = location
		} else {
			c.tel.ReportWarning(report_client_profile, "unrecognized descriptor", htmlutil.TextOf(descriptor))
		}
	}

	about := htmlutil.InnerHtml(content.Find(sel_profile_text))
	if orientation, ok := htmlutil.Submatch(profileOrientationRegex, about, 1); ok {
		profile.Orientation = strings.TrimSpace(html.UnescapeString(orientation))
	}
	if ageText, ok := htmlutil.Submatch(profileAgeRegex, about, 1); ok {
		age, err := strconv.Atoi(ageText)
		if err == nil {
			profile.Age = &age
		}
	}
	if alignment, ok := htmlutil.Submatch(profileAlignmentRegex, about, 1); ok {
		profile.Alignment = strings.TrimSpace(html.UnescapeString(alignment))
	}

	for _, anchor := range htmlutil.GetAnchors(content.Find(sel_profile_groups)) {
		groupId, _ := htmlutil.Submatch(profileGroupIdRegex, anchor.Href, 1)
		profile.GroupMemberships = append(profile.GroupMemberships, GroupMembership{
			Id:   groupId,
			Name: strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(anchor.Name)),
		})
	}

	profile.WritesToTypes = parseWritesToTypes(html.UnescapeString(about))

	profile.ImageUrl = htmlutil.Absolutize(
		c.BaseUrl,
		content.Find(sel_profile_image).First().AttrOr("src", ""),
	)

	profile.Id = requestedId
	if writeId := strings.TrimSpace(content.Find(sel_profile_write_id).First().AttrOr("value", "")); writeId != "" {
		profile.Id = writeId
	} else {
		c.tel.ReportDebug("profile has no write form, using requested id", requestedId)
	}
	profile.ProfileUrl = c.ProfileUrl(profile.Id)

	return profile, nil
}

// parseProfileDescriptor splits "<username>, <gender> aus <location>".
func parseProfileDescriptor(text string) (username string, profileType ProfileType, location string, ok bool) {
	groups := profileDescriptorRegex.FindStringSubmatch(strings.TrimSpace(text))
	if len(groups) < 4 {
		return "", PROFILE_MALE, "", false
	}
	profileType, ok = profileTypeFromToken(groups[2])
	if !ok {
		return "", PROFILE_MALE, "", false
	}
	return strings.TrimSpace(groups[1]), profileType, strings.TrimSpace(groups[3]), true
}

// parseWritesToTypes collects every "<pct> % an <gender>" mention, a later
// mention of the same bucket overwrites an earlier one.
func parseWritesToTypes(text string) WritesToTypes {
	var out WritesToTypes
	for _, groups := range profileWritesToRegex.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", "."), 64)
		if err != nil {
			continue
		}
		profileType, ok := profileTypeFromToken(groups[2])
		if !ok {
			continue
		}
		switch profileType {
		case PROFILE_MALE:
			out.Male = value
		case PROFILE_FEMALE:
			out.Female = value
		case PROFILE_COUPLE:
			out.Couple = value
		}
	}
	return out
}
