package htmltree

// Wrappers for the handful of html element tags the status dashboard and
// its tests actually use. Pruned from a general-purpose tag set down to
// this page's needs; add back a tag here if a new page element needs it.
//
// Conventions:
//     Functions are named by tag with initial caps, e.g. Html()
//
//     The signature for non-empty tags is Tagname(a string, c ...Content) *ElementTree
//     The signature for empty tags is Tagname(a string) *ElementTree
//
//     Empty refers to elements that enclose no content and need no closing tag.

// Main Root

func Html(a string, c ...Content) *ElementTree {
	return &ElementTree{"html", a, c, false}
}

// Document Metadata

func Head(a string, c ...Content) *ElementTree {
	return &ElementTree{"head", a, c, false}
}

func Body(a string, c ...Content) *ElementTree {
	return &ElementTree{"body", a, c, false}
}

func Meta(a string) *ElementTree {
	return &ElementTree{"meta", a, []Content{}, true}
}

func Title(a string, c ...Content) *ElementTree {
	return &ElementTree{"title", a, c, false}
}

// Content Sectioning

func H1(a string, c ...Content) *ElementTree {
	return &ElementTree{"h1", a, c, false}
}

// Text Content

func Div(a string, c ...Content) *ElementTree {
	return &ElementTree{"div", a, c, false}
}

func Li(a string, c ...Content) *ElementTree {
	return &ElementTree{"li", a, c, false}
}

func P(a string, c ...Content) *ElementTree {
	return &ElementTree{"p", a, c, false}
}

func Ul(a string, c ...Content) *ElementTree {
	return &ElementTree{"ul", a, c, false}
}

// Inline Text Semantics

func B(a string, c ...Content) *ElementTree {
	return &ElementTree{"b", a, c, false}
}

func Br(a string) *ElementTree {
	return &ElementTree{"br", a, []Content{}, true}
}
