package vz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mazen160/go-random"
)

const boundary_prefix = "----geckoformboundary"

// attempts to find a boundary that does not occur in any value, with 16 random
// characters a single attempt practically never collides.
const boundary_attempts = 8

var errNoBoundary = errors.New("vz scraper: could not find a unique multipart boundary")

type formPart struct {
	name  string
	value string
}

// sendMessageParts lists the form fields in the exact order the site's own
// message form submits them.
func sendMessageParts(req SendMessageRequest) []formPart {
	return []formPart{
		{name: "photo", value: req.Photo},
		{name: "name", value: req.Name},
		{name: "title", value: req.Title},
		{name: "text", value: req.Text},
		{name: "id", value: req.DialogId},
	}
}

func randomBoundary() (string, error) {
	suffix, err := random.String(16)
	if err != nil {
		return "", err
	}
	return boundary_prefix + strings.ToLower(suffix), nil
}

// chooseBoundary generates boundaries until one does not occur in any of the
// part values.
func chooseBoundary(parts []formPart, generate func() (string, error)) (string, error) {
	for i := 0; i < boundary_attempts; i++ {
		boundary, err := generate()
		if err != nil {
			return "", err
		}
		collides := false
		for _, p := range parts {
			if strings.Contains(p.value, boundary) {
				collides = true
				break
			}
		}
		if !collides {
			return boundary, nil
		}
	}
	return "", errNoBoundary
}

// encodeMultipart serializes parts as a multipart/form-data body, the parts
// keep their order and values are written verbatim.
func encodeMultipart(boundary string, parts []formPart) string {
	var body strings.Builder
	for _, p := range parts {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString(`Content-Disposition: form-data; name="` + p.name + `"`)
		body.WriteString("\r\n\r\n")
		body.WriteString(p.value + "\r\n")
	}
	body.WriteString("--" + boundary + "--\r\n")
	return body.String()
}

// SendMessage posts a message into an existing conversation. ok reflects
// whether the site answered with a 2xx status, the site does not report
// anything more specific.
func (c *Client) SendMessage(ctx context.Context, session Session, req SendMessageRequest) (ok bool, err error) {
	if session.IsZero() {
		return false, ErrUnauthenticated
	}

	parts := sendMessageParts(req)
	boundary, err := chooseBoundary(parts, c.boundary)
	if err != nil {
		c.tel.ReportBroken(report_client_send, err)
		return false, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetCookie(session.cookie()).
		SetHeader("content-type", "multipart/form-data; boundary="+boundary).
		SetBody(encodeMultipart(boundary, parts)).
		Post(endpoint_send)
	if err != nil {
		c.tel.ReportBroken(
			report_client_send,
			fmt.Errorf("send: %w", err),
			req.DialogId,
		)
		return false, err
	}

	if !res.IsSuccess() {
		c.tel.ReportWarning(report_client_send, "unsuccessful status", res.Status(), req.DialogId)
	}
	return res.IsSuccess(), nil
}
