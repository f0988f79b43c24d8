package slug

// reserved holds slugs that would collide with routes, protocol verbs,
// file names or chat-platform vocabulary.
var reserved = map[string]struct{}{
	// System routes.
	"about": {}, "account": {}, "accounts": {}, "admin": {}, "api": {},
	"app": {}, "assets": {}, "auth": {}, "billing": {}, "blog": {},
	"callback": {}, "cdn": {}, "config": {}, "contact": {}, "create": {},
	"dashboard": {}, "debug": {}, "docs": {}, "download": {}, "edit": {},
	"feed": {}, "graphql": {}, "health": {}, "healthz": {}, "help": {},
	"home": {}, "index": {}, "login": {}, "logout": {}, "me": {},
	"metrics": {}, "new": {}, "null": {}, "oauth": {}, "post": {},
	"posts": {}, "privacy": {}, "private": {}, "profile": {}, "public": {},
	"register": {}, "root": {}, "rss": {}, "atom": {}, "search": {},
	"settings": {}, "signin": {}, "signout": {}, "signup": {}, "sitemap": {},
	"static": {}, "status": {}, "support": {}, "system": {}, "terms": {},
	"test": {}, "undefined": {}, "update": {}, "upload": {}, "uploads": {},
	"user": {}, "users": {}, "webhook": {}, "webhooks": {}, "ws": {},
	"www": {}, "robots": {}, "favicon": {},

	// HTTP methods.
	"get": {}, "put": {}, "patch": {}, "delete": {}, "head": {},
	"options": {}, "trace": {}, "connect": {},

	// File extensions.
	"html": {}, "htm": {}, "css": {}, "js": {}, "json": {}, "xml": {},
	"txt": {}, "pdf": {}, "png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	"svg": {}, "ico": {}, "php": {}, "asp": {}, "aspx": {}, "jsp": {},

	// Platform terms.
	"bot": {}, "channel": {}, "discord": {}, "everyone": {}, "guild": {},
	"here": {}, "htmldrop": {}, "invite": {}, "mod": {}, "moderator": {},
	"owner": {}, "server": {}, "staff": {}, "submit": {},
}

// IsReserved reports whether s is a reserved word.
func IsReserved(s string) bool {
	_, ok := reserved[s]
	return ok
}
