package wms

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Style is one advertised layer style.
type Style struct {
	Name  string
	Title string
}

// Layer is one named layer from a capabilities document, with CRS and
// styles inherited from its ancestors already merged in.
type Layer struct {
	Name     string
	Title    string
	Abstract string
	CRS      map[string]struct{}
	Styles   map[string]Style
}

// HasCRS reports whether the layer advertises the given CRS. The set
// is stored uppercased; callers pass identifiers as written.
func (l *Layer) HasCRS(crs string) bool {
	_, ok := l.CRS[strings.ToUpper(crs)]
	return ok
}

// CRSList returns the advertised CRS identifiers in sorted order, for
// stable diagnostics.
func (l *Layer) CRSList() []string {
	out := make([]string, 0, len(l.CRS))
	for crs := range l.CRS {
		out = append(out, crs)
	}
	sort.Strings(out)
	return out
}

// Capabilities is the normalized result of parsing one GetCapabilities
// response. Layers is flat: every named layer at any depth is
// registered, last one wins when names repeat.
type Capabilities struct {
	Version string
	Formats []string
	Layers  map[string]*Layer
}

// xmlNode is a generic element tree. Matching is done on local names
// only; WMS servers vary wildly in namespace declarations and strict
// namespace-aware matching would reject valid documents.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) childText(local string) (string, bool) {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return strings.TrimSpace(n.Children[i].Text), true
		}
	}
	return "", false
}

// descendants appends every element named local, at any depth, to out.
func (n *xmlNode) descendants(local string, out []*xmlNode) []*xmlNode {
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == local {
			out = append(out, child)
		}
		out = child.descendants(local, out)
	}
	return out
}

// ParseCapabilities turns a raw GetCapabilities response into a
// capability tree. Layer CRS sets and style maps are inherited
// top-down; each recursion level works on its own copy so mutation in
// a subtree never leaks to siblings or the parent.
func ParseCapabilities(doc []byte) (*Capabilities, error) {
	var root xmlNode
	if err := xml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch root.XMLName.Local {
	case "ServiceExceptionReport", "ServiceException":
		return nil, ErrService
	case "WMT_MS_Capabilities", "WMS_Capabilities":
	default:
		return nil, fmt.Errorf("%w: root tag: %s", ErrProtocol, root.XMLName.Local)
	}

	version, ok := root.attr("version")
	if !ok {
		return nil, ErrVersion
	}

	caps := &Capabilities{
		Version: version,
		Layers:  make(map[string]*Layer),
	}

	for _, capability := range root.descendants("Capability", nil) {
		for i := range capability.Children {
			child := &capability.Children[i]
			if child.XMLName.Local == "Layer" {
				caps.walkLayer(child, nil, nil)
			}
		}
		for _, request := range capability.descendants("Request", nil) {
			for i := range request.Children {
				getMap := &request.Children[i]
				if getMap.XMLName.Local != "GetMap" {
					continue
				}
				for j := range getMap.Children {
					format := &getMap.Children[j]
					if format.XMLName.Local == "Format" {
						caps.Formats = append(caps.Formats, strings.TrimSpace(format.Text))
					}
				}
			}
		}
	}

	return caps, nil
}

// walkLayer descends one Layer element. The inherited CRS set and
// style map are snapshots owned by the parent; this level copies them
// before extending so the recursion never shares mutable state.
func (c *Capabilities) walkLayer(el *xmlNode, inheritedCRS map[string]struct{}, inheritedStyles map[string]Style) {
	layer := &Layer{
		CRS:    make(map[string]struct{}, len(inheritedCRS)),
		Styles: make(map[string]Style, len(inheritedStyles)),
	}
	for crs := range inheritedCRS {
		layer.CRS[crs] = struct{}{}
	}
	for name, style := range inheritedStyles {
		layer.Styles[name] = style
	}

	named := false
	if name, ok := el.childText("Name"); ok {
		layer.Name = name
		named = true
	}
	layer.Title, _ = el.childText("Title")
	layer.Abstract, _ = el.childText("Abstract")

	for i := range el.Children {
		child := &el.Children[i]
		switch child.XMLName.Local {
		case "CRS", "SRS":
			layer.CRS[strings.ToUpper(strings.TrimSpace(child.Text))] = struct{}{}
		case "Style":
			name, ok := child.childText("Name")
			if !ok || name == "" {
				continue
			}
			title, _ := child.childText("Title")
			layer.Styles[name] = Style{Name: name, Title: title}
		}
	}

	// Register before recursing so children with the same name win.
	if named {
		c.Layers[layer.Name] = layer
	}

	for i := range el.Children {
		child := &el.Children[i]
		if child.XMLName.Local == "Layer" {
			c.walkLayer(child, layer.CRS, layer.Styles)
		}
	}
}
