package discord

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

// Bot implements domain.Platform over the live session. Permission answers
// come straight from guild state; the engine never caches them.
var _ domain.Platform = (*Bot)(nil)

func (bot *Bot) guild(guildID string) (*discordgo.Guild, error) {
	guild, errState := bot.session.State.Guild(guildID)
	if errState == nil {
		return guild, nil
	}

	guild, errFetch := bot.session.Guild(guildID)
	if errFetch != nil {
		return nil, errors.Join(errFetch, domain.ErrExternalAction)
	}

	return guild, nil
}

func (bot *Bot) member(guildID string, memberID string) (*discordgo.Member, error) {
	member, errState := bot.session.State.Member(guildID, memberID)
	if errState == nil {
		return member, nil
	}

	member, errFetch := bot.session.GuildMember(guildID, memberID)
	if errFetch != nil {
		return nil, errors.Join(errFetch, domain.ErrExternalAction)
	}

	return member, nil
}

func (bot *Bot) HasAdminPermission(_ context.Context, guildID string, memberID string) (bool, error) {
	guild, errGuild := bot.guild(guildID)
	if errGuild != nil {
		return false, errGuild
	}

	if guild.OwnerID == memberID {
		return true, nil
	}

	member, errMember := bot.member(guildID, memberID)
	if errMember != nil {
		return false, errMember
	}

	roles := guild.Roles
	if len(roles) == 0 {
		fetched, errRoles := bot.session.GuildRoles(guildID)
		if errRoles != nil {
			return false, errors.Join(errRoles, domain.ErrExternalAction)
		}

		roles = fetched
	}

	for _, role := range roles {
		if !slices.Contains(member.Roles, role.ID) {
			continue
		}

		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true, nil
		}
	}

	return false, nil
}

func (bot *Bot) MemberRoles(_ context.Context, guildID string, memberID string) ([]string, error) {
	member, errMember := bot.member(guildID, memberID)
	if errMember != nil {
		return nil, errMember
	}

	return member.Roles, nil
}

// RoleMembers pages through the full guild roster since member state is only
// partially cached for large guilds.
func (bot *Bot) RoleMembers(_ context.Context, guildID string, roleID string) ([]string, error) {
	var (
		memberIDs []string
		after     string
	)

	for {
		members, errMembers := bot.session.GuildMembers(guildID, after, 1000)
		if errMembers != nil {
			return nil, errors.Join(errMembers, domain.ErrExternalAction)
		}

		if len(members) == 0 {
			break
		}

		for _, member := range members {
			if slices.Contains(member.Roles, roleID) {
				memberIDs = append(memberIDs, member.User.ID)
			}
		}

		after = members[len(members)-1].User.ID
	}

	return memberIDs, nil
}

func (bot *Bot) AddRole(_ context.Context, guildID string, memberID string, roleID string) error {
	if errAdd := bot.session.GuildMemberRoleAdd(guildID, memberID, roleID); errAdd != nil {
		return errors.Join(errAdd, domain.ErrExternalAction)
	}

	return nil
}

func (bot *Bot) GuildIDs() []string {
	guilds := bot.session.State.Guilds

	guildIDs := make([]string, 0, len(guilds))
	for _, guild := range guilds {
		guildIDs = append(guildIDs, guild.ID)
	}

	return guildIDs
}

func (bot *Bot) SendDirectMessage(_ context.Context, memberID string, message string) error {
	channel, errChannel := bot.session.UserChannelCreate(memberID)
	if errChannel != nil {
		return errors.Join(errChannel, domain.ErrDeliveryFailed)
	}

	if _, errSend := bot.session.ChannelMessageSend(channel.ID, message); errSend != nil {
		return errors.Join(errSend, domain.ErrDeliveryFailed)
	}

	return nil
}

func (bot *Bot) SendChannelMessage(channelID string, payload *discordgo.MessageEmbed) error {
	if !bot.isReady.Load() {
		slog.Warn("Tried to send message while disconnected", slog.String("channel_id", channelID))

		return nil
	}

	if _, errSend := bot.session.ChannelMessageSendEmbed(channelID, payload); errSend != nil {
		slog.Error("Failed to send discord payload", log.ErrAttr(errSend))

		return errors.Join(errSend, ErrMessageSend)
	}

	return nil
}

func (bot *Bot) ApplyTimeout(_ context.Context, guildID string, memberID string, duration time.Duration, _ string) error {
	until := time.Now().Add(duration)

	if errTimeout := bot.session.GuildMemberTimeout(guildID, memberID, &until); errTimeout != nil {
		return errors.Join(errTimeout, domain.ErrExternalAction)
	}

	return nil
}

func (bot *Bot) ClearTimeout(_ context.Context, guildID string, memberID string) error {
	if errTimeout := bot.session.GuildMemberTimeout(guildID, memberID, nil); errTimeout != nil {
		return errors.Join(errTimeout, domain.ErrExternalAction)
	}

	return nil
}

func (bot *Bot) BanMember(_ context.Context, guildID string, memberID string, reason string) error {
	if errBan := bot.session.GuildBanCreateWithReason(guildID, memberID, reason, 0); errBan != nil {
		return errors.Join(errBan, domain.ErrExternalAction)
	}

	return nil
}

func (bot *Bot) UnbanMember(_ context.Context, guildID string, memberID string) error {
	if errUnban := bot.session.GuildBanDelete(guildID, memberID); errUnban != nil {
		return errors.Join(errUnban, domain.ErrExternalAction)
	}

	return nil
}
