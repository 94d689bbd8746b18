package vz

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"vzchat-backend/internal/components/chrono"
	"vzchat-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	sel_messages_content     = "#content"
	sel_messages_item        = ".item"
	sel_messages_counterpart = `a[href*="view_profile.php?c="][style*="color:grey"]`
	sel_messages_image       = `a[href*="view_profile.php?c="] img`
	sel_messages_label       = "span.csstabmsg"
	sel_messages_label_bold  = "span.csstabmsg b"
	sel_messages_pager       = `a[href^="?p="]`
)

const (
	messages_subject_label  = "Betreff:"
	messages_date_label     = "Vom:"
	messages_unread_marker  = "[ungelesen]"
	messages_deleted_marker = "[gelöscht]"
)

var (
	messagesUserIdRegex = regexp.MustCompile(`c=([a-zA-Z0-9]+)`)
	messagesMsgIdRegex  = regexp.MustCompile(`msg=(\d+)`)
)

func boxEndpoint(box Box) string {
	if box == BOX_OUTBOX {
		return endpoint_outbox
	}
	return endpoint_inbox
}

// MessagePage fetches a single page of the inbox or outbox listing, pages are
// zero-indexed.
func (c *Client) MessagePage(ctx context.Context, session Session, box Box, page int) (MessagePage, error) {
	endpoint := boxEndpoint(box) + "?" + url.Values{
		"p":    {strconv.Itoa(page)},
		"full": {"1"},
	}.Encode()

	doc, err := c.fetchDocument(ctx, session, endpoint, report_client_messages)
	if err != nil {
		return MessagePage{}, err
	}
	return c.parseMessagePage(doc, box, page)
}

func (c *Client) parseMessagePage(doc *goquery.Document, box Box, page int) (MessagePage, error) {
	content := doc.Find(sel_messages_content).First()
	if content.Length() == 0 {
		c.tel.ReportWarning(report_client_messages, "content not found", box.String(), page)
		return MessagePage{}, ErrMissingContent
	}

	result := MessagePage{Items: []MessageBoxItem{}}
	content.Find(sel_messages_item).Each(func(_ int, el *goquery.Selection) {
		inner := htmlutil.InnerHtml(el)
		unread := strings.Contains(inner, messages_unread_marker)
		if unread {
			result.HasUnread = true
		}

		item, ok := c.parseMessageItem(el)
		if !ok {
			return
		}
		item.Unread = unread
		item.Deleted = strings.Contains(inner, messages_deleted_marker)
		result.Items = append(result.Items, item)
	})

	if page == 0 {
		totalPages := parseTotalPages(content)
		result.TotalPages = &totalPages
	}

	return result, nil
}

// parseMessageItem reads everything of an item but its flags, ok is false for
// items without a subject link.
func (c *Client) parseMessageItem(el *goquery.Selection) (MessageBoxItem, bool) {
	subjectLink := messageSubjectLink(el)
	if subjectLink == nil {
		return MessageBoxItem{}, false
	}
	subject := htmlutil.NormalizeText(htmlutil.TextOf(subjectLink))
	if subject == "" {
		return MessageBoxItem{}, false
	}
	href := subjectLink.AttrOr("href", "")

	item := MessageBoxItem{
		DialogId:   el.AttrOr("id", ""),
		Subject:    subject,
		MessageUrl: htmlutil.Absolutize(c.BaseUrl, href),
	}
	item.Id, _ = htmlutil.Submatch(messagesMsgIdRegex, href, 1)

	counterpart := el.Find(sel_messages_counterpart).First()
	if counterpart.Length() > 0 {
		counterpartHref := counterpart.AttrOr("href", "")
		item.User.ProfileUrl = htmlutil.Absolutize(c.BaseUrl, counterpartHref)
		item.User.Id, _ = htmlutil.Submatch(messagesUserIdRegex, counterpartHref, 1)
		item.User.Name = htmlutil.TextOf(counterpart)
		item.User.Location, _ = htmlutil.NextTextSibling(counterpart.Nodes[0])
	}
	item.User.ImageUrl = htmlutil.Absolutize(
		c.BaseUrl,
		el.Find(sel_messages_image).First().AttrOr("src", ""),
	)

	if dateText, ok := messageDateText(el); ok {
		date, ok := chrono.ParseGermanDateTime(dateText)
		if ok {
			item.Date = date
		} else {
			c.tel.ReportWarning(report_client_messages, "unparsable date", dateText)
		}
	}

	return item, true
}

// messageSubjectLink finds the link inside the <font> that follows the
// "Betreff:" label.
func messageSubjectLink(el *goquery.Selection) *goquery.Selection {
	var label *goquery.Selection
	el.Find(sel_messages_label).EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.Contains(span.Text(), messages_subject_label) {
			label = span
			return false
		}
		return true
	})
	if label == nil {
		return nil
	}
	font := label.Next()
	if goquery.NodeName(font) != "font" {
		return nil
	}
	link := font.Find("a").First()
	if link.Length() == 0 {
		return nil
	}
	return link
}

// messageDateText returns the first non-empty text after the span holding the
// "Vom:" label.
func messageDateText(el *goquery.Selection) (string, bool) {
	var span *html.Node
	el.Find(sel_messages_label_bold).EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if strings.TrimSpace(b.Text()) == messages_date_label {
			span = b.Nodes[0].Parent
			return false
		}
		return true
	})
	if span == nil {
		return "", false
	}
	return htmlutil.NextNonEmptyTextSibling(span)
}

// parseTotalPages returns the highest page number the pager links to, or 0
// if there is no pager.
func parseTotalPages(content *goquery.Selection) int {
	total := 0
	content.Find(sel_messages_pager).Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			return
		}
		if n > total {
			total = n
		}
	})
	return total
}

// crawlBox walks a box page by page starting at 0. With unreadOnly the walk
// stops after the first page without unread items and only unread items are
// returned.
func (c *Client) crawlBox(ctx context.Context, session Session, box Box, unreadOnly bool) ([]MessageBoxItem, error) {
	items := []MessageBoxItem{}
	totalPages := 0

	for page := 0; ; page++ {
		result, err := c.MessagePage(ctx, session, box, page)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", box, page, err)
		}
		items = append(items, result.Items...)
		if page == 0 && result.TotalPages != nil {
			totalPages = *result.TotalPages
		}

		if unreadOnly && !result.HasUnread {
			break
		}
		if page+1 > totalPages {
			break
		}
	}

	if unreadOnly {
		unread := []MessageBoxItem{}
		for _, item := range items {
			if item.Unread {
				unread = append(unread, item)
			}
		}
		items = unread
	}

	c.tel.ReportCount(report_client_crawl, int64(len(items)))
	return items, nil
}

// Inbox returns every item of the inbox, or only the unread ones.
func (c *Client) Inbox(ctx context.Context, session Session, unreadOnly bool) ([]MessageBoxItem, error) {
	return c.crawlBox(ctx, session, BOX_INBOX, unreadOnly)
}

// Outbox returns every item of the outbox.
func (c *Client) Outbox(ctx context.Context, session Session) ([]MessageBoxItem, error) {
	return c.crawlBox(ctx, session, BOX_OUTBOX, false)
}
