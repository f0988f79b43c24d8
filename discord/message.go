package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fwojciec/htmldrop"
)

// Embed colors per outcome kind.
const (
	colorSuccess  = 0x2ECC71
	colorRejected = 0xE74C3C
	colorHelp     = 0x3498DB
)

const footer = "htmldrop"

// MessageFromDiscord converts a Discord message into a pipeline message.
// Only the first attachment is kept.
func MessageFromDiscord(m *discordgo.Message) *htmldrop.Message {
	msg := &htmldrop.Message{Text: m.Content}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.GlobalName
		if msg.AuthorName == "" {
			msg.AuthorName = m.Author.Username
		}
	}
	if len(m.Attachments) > 0 && m.Attachments[0] != nil {
		a := m.Attachments[0]
		msg.Attachment = &htmldrop.Attachment{
			URL:         a.URL,
			Name:        a.Filename,
			Size:        int64(a.Size),
			ContentType: a.ContentType,
		}
	}
	return msg
}

// OutcomeEmbed renders a submission outcome as a reply embed.
func OutcomeEmbed(out *htmldrop.Outcome, baseURL string) *discordgo.MessageEmbed {
	if out == nil {
		out = &htmldrop.Outcome{Kind: htmldrop.OutcomeRejected, Detail: "Something went wrong. Please try again later."}
	}

	embed := &discordgo.MessageEmbed{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
	}

	switch out.Kind {
	case htmldrop.OutcomeSuccess:
		embed.Color = colorSuccess
		if out.Post == nil {
			embed.Title = "Published"
			embed.Description = out.Detail
			return embed
		}
		address := postURL(baseURL, out.Post.Slug)
		embed.Title = out.Post.Title
		embed.Description = out.Post.Description
		// Discord only links absolute URLs.
		if strings.HasPrefix(address, "http") {
			embed.URL = address
		}
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Address", Value: address},
		}
		if a := out.Analysis; a != nil {
			embed.Fields = append(embed.Fields,
				&discordgo.MessageEmbedField{Name: "Words", Value: fmt.Sprintf("%d", a.WordCount), Inline: true},
				&discordgo.MessageEmbedField{Name: "Reading time", Value: fmt.Sprintf("%d min", a.ReadingTimeMinutes), Inline: true},
				&discordgo.MessageEmbedField{Name: "Type", Value: string(a.ContentType), Inline: true},
			)
		}
	case htmldrop.OutcomeHelp:
		embed.Color = colorHelp
		embed.Title = "How to submit"
		embed.Description = out.Detail
	default:
		embed.Color = colorRejected
		embed.Title = "Submission rejected"
		embed.Description = out.Detail
	}
	return embed
}

// HelpEmbed lists the bot commands.
func HelpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "htmldrop commands",
		Color: colorHelp,
		Fields: []*discordgo.MessageEmbedField{
			{Name: SubmitCommand, Value: "Publish HTML from an attached .html file or a ```html code block."},
			{Name: HelpCommand, Value: "Show this message."},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}
}

func postURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/" + slug
}
