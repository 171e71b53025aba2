package discord

import (
	"github.com/bwmarrin/discordgo"
	embed "github.com/leighmacdonald/discordgo-embed"
)

const providerName = "dutymeter"

// NewEmbed constructs a new discord embed message.
func NewEmbed(args ...string) *Embed {
	newEmbed := embed.
		NewEmbed().
		SetFooter(providerName)

	if len(args) == 2 {
		newEmbed = newEmbed.SetTitle(args[0]).
			SetDescription(args[1])
	} else if len(args) == 1 {
		newEmbed = newEmbed.SetTitle(args[0])
	}

	return &Embed{Emb: newEmbed}
}

type Embed struct {
	Emb *embed.Embed
}

func (e *Embed) Embed() *embed.Embed {
	return e.Emb
}

func (e *Embed) Message() *discordgo.MessageEmbed {
	return e.Emb.Truncate().MessageEmbed
}

// AddMember renders a member mention field.
func (e *Embed) AddMember(label string, memberID string) *Embed {
	e.Emb.AddField(label, "<@"+memberID+">").MakeFieldInline()

	return e
}
