// Package htmldrop publishes HTML submitted through a chat command as
// addressable posts. Submitted HTML is extracted from the message,
// sanitized, described by a language model (slug, title, description),
// and stored under a unique slug.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, discordgo in
// discord/).
package htmldrop
