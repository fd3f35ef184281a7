// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package domxml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

func TestReadDocumentAndRoot(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root attr="v"><child>text</child></root>`))
	require.NoError(t, err)

	root := doc.Root()
	require.Equal(t, "root", root.Tag())
	v, ok := root.Attr("attr")
	require.True(t, ok)
	require.Equal(t, "v", v)

	children := root.ChildElements()
	require.Len(t, children, 1)
	require.Equal(t, "child", children[0].Tag())
	require.Equal(t, "text", children[0].Text())
	require.Equal(t, root.Tag(), children[0].Parent().Tag())
}

func TestAddIDThenResolveID(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root><item Id="a1">one</item><item Id="a2">two</item></root>`))
	require.NoError(t, err)

	for _, child := range doc.Root().ChildElements() {
		doc.AddID(child, []string{"Id"})
	}

	node, ok := doc.ResolveID("a2")
	require.True(t, ok)
	require.Equal(t, "two", node.Text())

	_, ok = doc.ResolveID("missing")
	require.False(t, ok)
}

func TestReplaceWith(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root><old>before</old></root>`))
	require.NoError(t, err)

	replacement, err := domxml.ReadDocument(strings.NewReader(`<new>after</new>`))
	require.NoError(t, err)

	old := doc.Root().ChildElements()[0]
	require.NoError(t, old.ReplaceWith(replacement.Root()))

	var out strings.Builder
	require.NoError(t, doc.Root().Serialize(&out))
	require.Contains(t, out.String(), "<new>after</new>")
	require.NotContains(t, out.String(), "old")
}

func TestReplaceChildrenWith(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root><a/><b/></root>`))
	require.NoError(t, err)

	replacement, err := domxml.ReadDocument(strings.NewReader(`<c>hi</c>`))
	require.NoError(t, err)

	require.NoError(t, doc.Root().ReplaceChildrenWith(replacement.Root()))

	children := doc.Root().ChildElements()
	require.Len(t, children, 1)
	require.Equal(t, "c", children[0].Tag())
	require.Equal(t, "hi", children[0].Text())
}

func TestReplaceWithBytesHandlesMultipleSiblings(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root><target/><keep>kept</keep></root>`))
	require.NoError(t, err)

	target := doc.Root().ChildElements()[0]
	require.NoError(t, target.ReplaceWithBytes([]byte(`<one/><two/>`)))

	children := doc.Root().ChildElements()
	require.Len(t, children, 3)
	require.Equal(t, "one", children[0].Tag())
	require.Equal(t, "two", children[1].Tag())
	require.Equal(t, "keep", children[2].Tag())
}

func TestSerializeEscapesText(t *testing.T) {
	doc, err := domxml.ReadDocument(strings.NewReader(`<root></root>`))
	require.NoError(t, err)
	doc.Root().SetTextBytes([]byte("a & b < c"))

	var out strings.Builder
	require.NoError(t, doc.Root().Serialize(&out))
	require.Contains(t, out.String(), "a &amp; b &lt; c")
}
