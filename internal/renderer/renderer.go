// Package renderer implements the data-binding contract between compiled
// site JSON and page markup: token substitution, style hydration, and
// path-based content binding. One Renderer instance serves a page session;
// nothing here touches shared mutable state.
package renderer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"artfolio-backend/internal/domains/content"
	"artfolio-backend/pkg/pathutil"
)

// Staging/binding attributes consumed by the renderer.
const (
	AttrStyle       = "data-style"
	AttrContentPath = "data-content-path"
	AttrContentType = "data-content-type"
)

// RenderPage produces final page markup from a raw template and a compiled
// site: token substitution first, then style hydration and path binding on
// the parsed tree.
func RenderPage(template string, site *content.CompiledSite) (string, error) {
	substituted := RenderTokens(template, Flatten(site))

	doc, err := html.Parse(strings.NewReader(substituted))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	HydrateStyles(doc)
	if err := BindContent(doc, site); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return sb.String(), nil
}

// Flatten turns the compiled site into the flat token map consumed by
// RenderTokens. Keys are dotted paths ("homeContent.title"); only string
// leaves are included.
func Flatten(site *content.CompiledSite) map[string]string {
	values := map[string]string{}
	flattenInto(values, "", site.Root())
	return values
}

func flattenInto(values map[string]string, prefix string, node map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			values[key] = val
		case map[string]any:
			flattenInto(values, key, val)
		}
	}
}

// HydrateStyles appends each node's staged inline CSS to its live style
// attribute and deletes the staging attribute. Deleting makes the pass
// idempotent: a second run finds nothing to consume.
func HydrateStyles(doc *html.Node) {
	walk(doc, func(n *html.Node) {
		staged, ok := attr(n, AttrStyle)
		if !ok {
			return
		}

		if existing, has := attr(n, "style"); has && existing != "" {
			setAttr(n, "style", strings.TrimSuffix(existing, ";")+"; "+staged)
		} else {
			setAttr(n, "style", staged)
		}
		removeAttr(n, AttrStyle)
	})
}

// BindContent resolves each node's content path against the compiled site
// and sets its text, inner markup or background image. Missing values clear
// the bound property instead of leaving stale content.
func BindContent(doc *html.Node, site *content.CompiledSite) error {
	root := site.Root()
	var bindErr error

	walk(doc, func(n *html.Node) {
		if bindErr != nil {
			return
		}
		path, ok := attr(n, AttrContentPath)
		if !ok {
			return
		}
		typ, _ := attr(n, AttrContentType)

		value := pathutil.GetString(root, path)

		switch typ {
		case content.TypeText:
			setText(n, value)
		case content.TypeHTML:
			if err := setInnerHTML(n, value); err != nil {
				bindErr = err
			}
		case content.TypeImageURL:
			setBackgroundImage(n, value)
		}
	})

	return bindErr
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func setText(n *html.Node, value string) {
	removeChildren(n)
	if value == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
}

func setInnerHTML(n *html.Node, value string) error {
	removeChildren(n)
	if value == "" {
		return nil
	}

	fragment, err := html.ParseFragment(strings.NewReader(value), n)
	if err != nil {
		return fmt.Errorf("failed to parse bound markup: %w", err)
	}
	for _, child := range fragment {
		n.AppendChild(child)
	}
	return nil
}

// setBackgroundImage rewrites the node's style so exactly one
// background-image declaration remains (or none when value is empty).
func setBackgroundImage(n *html.Node, value string) {
	style, _ := attr(n, "style")

	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" || strings.HasPrefix(decl, "background-image") {
			continue
		}
		kept = append(kept, decl)
	}

	if value != "" {
		kept = append(kept, fmt.Sprintf("background-image: url('%s')", value))
	}

	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(kept, "; "))
}
