// Package wmts holds a deliberately thin WMTS capabilities reader.
// The checker only needs to know whether an endpoint serves a
// plausible capabilities document, not what is in it.
package wmts

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/MrSnakeDoc/layerlint/internal/domain"
)

// Fetcher retrieves the capabilities document.
type Fetcher interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// Client fetches and parses WMTS capabilities documents.
type Client struct {
	client Fetcher
}

// NewClient builds a WMTS client on top of the given fetcher.
func NewClient(client Fetcher) *Client {
	return &Client{client: client}
}

// capabilitiesDoc is the minimal shape needed to judge a document as a
// WMTS capabilities response.
type capabilitiesDoc struct {
	XMLName  xml.Name
	Version  string `xml:"version,attr"`
	Contents struct {
		Layers []struct {
			Identifier string `xml:"Identifier"`
		} `xml:"Layer"`
	} `xml:"Contents"`
}

// Check fetches the source URL and reports one error when the
// response is not a parseable WMTS capabilities document.
func (c *Client) Check(ctx context.Context, src *domain.Source, rep *domain.Report) {
	_, body, err := c.client.Get(ctx, src.URL)
	if err != nil {
		rep.Errorf("Exception: %v", err)
		return
	}
	if err := parseCapabilities(body); err != nil {
		rep.Errorf("Exception: %v", err)
	}
}

func parseCapabilities(doc []byte) error {
	var caps capabilitiesDoc
	if err := xml.Unmarshal(doc, &caps); err != nil {
		return fmt.Errorf("could not parse WMTS capabilities: %w", err)
	}
	if caps.XMLName.Local != "Capabilities" {
		return fmt.Errorf("unexpected root element: %s", caps.XMLName.Local)
	}
	if len(caps.Contents.Layers) == 0 {
		return fmt.Errorf("no layers advertised in WMTS capabilities")
	}
	return nil
}
