package sanitize

// allowedTags lists elements kept in sanitized output.
var allowedTags = map[string]bool{
	// Document structure.
	"article": true, "aside": true, "section": true, "header": true,
	"footer": true, "main": true, "nav": true, "div": true, "span": true,
	"figure": true, "figcaption": true, "details": true, "summary": true,
	"address": true, "hr": true, "br": true, "wbr": true,

	// Headings and text.
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "blockquote": true, "q": true, "cite": true, "a": true,
	"abbr": true, "b": true, "strong": true, "i": true, "em": true,
	"u": true, "s": true, "del": true, "ins": true, "mark": true,
	"small": true, "sub": true, "sup": true, "time": true, "dfn": true,

	// Code.
	"pre": true, "code": true, "kbd": true, "samp": true, "var": true,

	// Lists.
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,

	// Tables.
	"table": true, "caption": true, "thead": true, "tbody": true,
	"tfoot": true, "tr": true, "th": true, "td": true, "colgroup": true,
	"col": true,

	// Media.
	"img": true, "picture": true,
}

// unwrapTags are inert legacy containers: the tag is dropped but its
// children are kept.
var unwrapTags = map[string]bool{
	"font":   true,
	"center": true,
	"big":    true,
	"tt":     true,
	"nobr":   true,
}

// voidTags have no closing tag.
var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "col": true, "wbr": true,
}

// globalAttrs are allowed on every kept element.
var globalAttrs = map[string]bool{
	"id": true, "class": true, "title": true, "lang": true, "dir": true,
	"style": true,
}

// tagAttrs are additionally allowed per element.
var tagAttrs = map[string]map[string]bool{
	"a":          {"href": true, "target": true, "rel": true, "name": true},
	"img":        {"src": true, "alt": true, "width": true, "height": true, "loading": true},
	"td":         {"colspan": true, "rowspan": true, "align": true, "valign": true},
	"th":         {"colspan": true, "rowspan": true, "align": true, "valign": true, "scope": true},
	"table":      {"border": true, "cellpadding": true, "cellspacing": true, "width": true},
	"col":        {"span": true, "width": true},
	"colgroup":   {"span": true, "width": true},
	"ol":         {"start": true, "type": true, "reversed": true},
	"li":         {"value": true},
	"blockquote": {"cite": true},
	"q":          {"cite": true},
	"del":        {"cite": true, "datetime": true},
	"ins":        {"cite": true, "datetime": true},
	"time":       {"datetime": true},
	"details":    {"open": true},
}

// urlAttrs carry URLs and are subject to scheme checks beyond the
// blocked-scheme rule applied to every attribute.
var urlAttrs = map[string]bool{
	"href": true, "src": true, "cite": true,
}

// allowedTargets are the accepted values of a link target.
var allowedTargets = map[string]bool{
	"_blank": true, "_self": true, "_parent": true, "_top": true,
}

// allowedStyles lists presentational CSS properties kept in style
// attributes.
var allowedStyles = map[string]bool{
	"color": true, "background-color": true,
	"font-size": true, "font-weight": true, "font-style": true, "font-family": true,
	"text-align": true, "text-decoration": true, "text-transform": true,
	"line-height": true, "letter-spacing": true, "white-space": true,
	"margin": true, "margin-top": true, "margin-right": true, "margin-bottom": true, "margin-left": true,
	"padding": true, "padding-top": true, "padding-right": true, "padding-bottom": true, "padding-left": true,
	"border": true, "border-color": true, "border-style": true, "border-width": true,
	"border-radius": true, "border-collapse": true,
	"width": true, "height": true, "max-width": true, "max-height": true,
	"min-width": true, "min-height": true,
	"vertical-align": true, "list-style-type": true,
}

// blockedStyleValues make a CSS declaration unsafe when present in its
// value.
var blockedStyleValues = []string{
	"expression(",
	"@import",
	"javascript",
	"behavior:",
	"binding:",
	"url(",
}
