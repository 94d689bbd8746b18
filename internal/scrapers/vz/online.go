package vz

import (
	"context"
	"strings"

	"vzchat-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	sel_online_region   = "#content > div:nth-child(6)"
	sel_online_card     = ".useroverview"
	sel_online_id       = `input[name="id"]`
	sel_online_username = `a[style*="color:black"]`
	sel_online_inner    = ".inner_useroverview"
	sel_online_image    = "img"
)

// text nodes of a card that are not the location
var onlineLocationBoilerplate = []string{
	"Anschreiben",
	"🟢",
}

// OnlineUsers returns the users on the "who's online" page. An empty list is
// returned if the page has no user region, this is also what a logged out
// session looks like.
func (c *Client) OnlineUsers(ctx context.Context, session Session) ([]OnlineUser, error) {
	doc, err := c.fetchDocument(ctx, session, endpoint_online, report_client_online)
	if err != nil {
		return nil, err
	}
	return c.parseOnlineUsers(doc), nil
}

func (c *Client) parseOnlineUsers(doc *goquery.Document) []OnlineUser {
	region := doc.Find(sel_online_region).First()
	if region.Length() == 0 {
		c.tel.ReportWarning(report_client_online, "user region not found")
		return []OnlineUser{}
	}

	users := []OnlineUser{}
	region.Find(sel_online_card).Each(func(_ int, card *goquery.Selection) {
		id := card.Find(sel_online_id).First().AttrOr("value", "")
		users = append(users, OnlineUser{
			Id:         id,
			Username:   htmlutil.TextOf(card.Find(sel_online_username)),
			Location:   onlineLocation(card.Find(sel_online_inner).First()),
			ProfileUrl: c.ProfileUrl(id),
			ImageUrl:   htmlutil.Absolutize(c.BaseUrl, card.Find(sel_online_image).First().AttrOr("src", "")),
		})
	})

	c.tel.ReportCount(report_client_online, int64(len(users)))
	return users
}

// the location has no element of its own, it is the first meaningful text
// directly inside the inner card.
func onlineLocation(inner *goquery.Selection) string {
	if inner.Length() == 0 {
		return ""
	}
	for _, text := range htmlutil.DirectTexts(inner.Nodes[0]) {
		text = strings.TrimSpace(text)
		if text == "" || isBoilerplate(text) {
			continue
		}
		return text
	}
	return ""
}

func isBoilerplate(text string) bool {
	for _, b := range onlineLocationBoilerplate {
		if strings.Contains(text, b) {
			return true
		}
	}
	return false
}
