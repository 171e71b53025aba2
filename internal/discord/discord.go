// Package discord carries the chat platform binding: the bot session, slash
// command dispatch and the Platform implementation used by the engine.
package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrConfig           = errors.New("discord config invalid, requires token and app id")
	ErrCreate           = errors.New("failed to connect to discord")
	ErrOpen             = errors.New("failed to open discord connection")
	ErrDuplicateCommand = errors.New("duplicate command registration")
	ErrCommandRegister  = errors.New("failed to register slash commands")
	ErrMessageSend      = errors.New("failed sending discord message")

	DmPerms    = false                                    //nolint:gochecknoglobals
	ModPerms   = int64(discordgo.PermissionBanMembers)    //nolint:gochecknoglobals
	AdminPerms = int64(discordgo.PermissionAdministrator) //nolint:gochecknoglobals
)

const (
	OptMember   = "member"
	OptReason   = "reason"
	OptAmount   = "amount"
	OptDuration = "duration"
	OptRole     = "role"
	OptChannel  = "channel"
)

const (
	ColourSuccess = 302673
	ColourInfo    = 3581519
	ColourWarn    = 14327864
	ColourError   = 13631488
)
