package vz

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"vzchat-backend/internal/components/chrono"
	"vzchat-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	sel_thread_content = "#content"
	sel_thread_card    = `div[style*="border: 3px solid white"]`
	sel_thread_header  = `div[style*="border:0px solid black"]`
	sel_thread_profile = `a[href*="view_profile.php?c="]`
	sel_thread_body    = `div[style*="word-wrap: break-word"]`
)

// ex. "Pagan666, am 3.7.2024 21:05:09"
var threadDateRegex = regexp.MustCompile(`, am ` + chrono.GermanDateTimeRegex().String())

// Thread returns the messages of a conversation in page order. msgId and
// dialogId are the Id and DialogId of any of its message box items.
func (c *Client) Thread(ctx context.Context, session Session, msgId, dialogId string) ([]ThreadMessage, error) {
	endpoint := endpoint_thread + "?" + url.Values{
		"msg": {msgId},
		"d":   {dialogId},
	}.Encode()

	doc, err := c.fetchDocument(ctx, session, endpoint, report_client_thread)
	if err != nil {
		return nil, err
	}
	return c.parseThread(doc)
}

func (c *Client) parseThread(doc *goquery.Document) ([]ThreadMessage, error) {
	content := doc.Find(sel_thread_content).First()
	if content.Length() == 0 {
		c.tel.ReportWarning(report_client_thread, "content not found")
		return nil, ErrMissingContent
	}

	messages := []ThreadMessage{}
	content.Find(sel_thread_card).Each(func(_ int, card *goquery.Selection) {
		var message ThreadMessage

		header := card.Find(sel_thread_header).First()
		if header.Length() > 0 {
			link := header.Find(sel_thread_profile).First()
			if link.Length() > 0 {
				href := link.AttrOr("href", "")
				message.SenderProfileUrl = htmlutil.Absolutize(c.BaseUrl, href)
				message.SenderId, _ = htmlutil.Submatch(messagesUserIdRegex, href, 1)
				message.SenderImageUrl = htmlutil.Absolutize(
					c.BaseUrl,
					link.Find("img").First().AttrOr("src", ""),
				)
			}
			message.SenderName = htmlutil.TextOf(header.Find("b"))

			groups := threadDateRegex.FindStringSubmatch(header.Text())
			if len(groups) == 7 {
				if date, ok := chrono.DateFromGroups(groups[1:]); ok {
					message.Date = date
				}
			}
		}

		body := card.Find(sel_thread_body).First()
		if body.Length() > 0 {
			var texts []string
			for _, text := range htmlutil.DirectTexts(body.Nodes[0]) {
				texts = append(texts, strings.TrimSpace(text))
			}
			message.Message = strings.TrimSpace(strings.Join(texts, " "))

			body.Find("img").Each(func(_ int, img *goquery.Selection) {
				message.Images = append(message.Images, htmlutil.Absolutize(c.BaseUrl, img.AttrOr("src", "")))
			})
		}

		messages = append(messages, message)
	})

	c.tel.ReportCount(report_client_thread, int64(len(messages)))
	return messages, nil
}
