package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"multisib/backend/services/collector-service/internal/models"
)

const valueClass = "data-value"

// Block is one label/value pair found on the live data page.
type Block struct {
	Label string
	Value string
}

// Extractor turns the live data page into a TelemetryRecord.
type Extractor struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExtractor returns an extractor stamping records with the wall clock.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger, now: time.Now}
}

// WithClock replaces the timestamp source.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract parses payload. Unknown labels are logged at debug and skipped;
// fields the page does not report stay absent.
func (e *Extractor) Extract(payload []byte) (models.TelemetryRecord, error) {
	record := models.NewTelemetryRecord(e.now())

	blocks, err := ScanBlocks(bytes.NewReader(payload))
	if err != nil {
		return models.TelemetryRecord{}, err
	}

	for _, b := range blocks {
		key := strings.ReplaceAll(strings.TrimSpace(b.Label), ":", "")
		if !record.Set(key, NormalizeValue(b.Value)) {
			e.logger.Debug("missing the key", zap.String("key", key))
		}
	}
	return record, nil
}

// ScanBlocks walks the document and returns, for every <p>, the text of its
// first <strong> and of its first element classed data-value. Paragraphs
// missing either one are left out.
func ScanBlocks(r io.Reader) ([]Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parser: parse html: %w", err)
	}

	var blocks []Block
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			label := findFirst(n, isStrong)
			value := findFirst(n, hasValueClass)
			if label != nil && value != nil {
				blocks = append(blocks, Block{Label: textOf(label), Value: textOf(value)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

func isStrong(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Strong
}

func hasValueClass(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == "class" {
			for _, class := range strings.Fields(attr.Val) {
				if class == valueClass {
					return true
				}
			}
		}
	}
	return false
}

// findFirst searches the descendants of n in document order.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
