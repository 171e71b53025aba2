package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/discord"
)

type discordHandler struct {
	moderation Moderation
}

//nolint:funlen
func RegisterDiscordCommands(bot *discord.Bot, moderation Moderation) {
	var (
		optTarget = &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        discord.OptMember,
			Description: "Member the action applies to",
			Required:    true,
		}
		optReason = &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        discord.OptReason,
			Description: "Reason shown in the action log",
			Required:    true,
		}
		optAmount = &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        discord.OptAmount,
			Description: "Number of points",
			Required:    true,
		}
	)

	handler := &discordHandler{moderation: moderation}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "warn",
		Description:              "Issue a warning to a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optReason},
	}, handler.onWarn)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "unwarn",
		Description:              "Remove one warning matching a reason",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optReason},
	}, handler.onUnwarn)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "warns",
		Description:              "List the warnings issued to a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onWarns)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "clearwarns",
		Description:              "Remove every warning from a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onClearWarns)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "mute",
		Description:              "Time a member out",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options: []*discordgo.ApplicationCommandOption{
			optTarget,
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        discord.OptDuration,
				Description: "Timeout length in minutes",
				Required:    true,
			},
			optReason,
		},
	}, handler.onMute)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "unmute",
		Description:              "Clear a member timeout",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onUnmute)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "ban",
		Description:              "Ban a member from the guild",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optReason},
	}, handler.onBan)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "unban",
		Description:              "Unban a previously banned member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onUnban)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "blacklist",
		Description:              "Add a member to the deny-list",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optReason},
	}, handler.onDenyListAdd)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "unblacklist",
		Description:              "Remove a member from the deny-list",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onDenyListRemove)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "checkblacklist",
		Description:              "Check whether a member is on the deny-list",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.ModPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget},
	}, handler.onDenyListCheck)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "addpoints",
		Description:              "Grant activity points to a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optAmount},
	}, handler.onAddPoints)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "removepoints",
		Description:              "Revoke activity points from a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optTarget, optAmount},
	}, handler.onRemovePoints)
}

func interactionTarget(session *discordgo.Session, interaction *discordgo.InteractionCreate) string {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)

	return opts[discord.OptMember].UserValue(session).ID
}

func (h *discordHandler) onWarn(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	reason := opts[discord.OptReason].StringValue()

	warned, errWarn := h.moderation.Warn(ctx, interaction.GuildID, interaction.Member.User.ID, targetID, reason)
	if errWarn != nil {
		return nil, errWarn
	}

	msgEmbed := discord.NewEmbed("Warning Issued", reason)
	msgEmbed.Embed().SetColor(discord.ColourWarn)
	msgEmbed.AddMember("Member", targetID)
	msgEmbed.Embed().AddField("Warning ID", fmt.Sprintf("%d", warned.WarningID)).MakeFieldInline()

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onUnwarn(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	reason := opts[discord.OptReason].StringValue()

	removed, errUnwarn := h.moderation.Unwarn(ctx, interaction.GuildID, interaction.Member.User.ID, targetID, reason)
	if errUnwarn != nil {
		return nil, errUnwarn
	}

	if !removed {
		msgEmbed := discord.NewEmbed("No Matching Warning")
		msgEmbed.Embed().SetColor(discord.ColourInfo)
		msgEmbed.AddMember("Member", targetID)

		return msgEmbed.Message(), nil
	}

	msgEmbed := discord.NewEmbed("Warning Removed", reason)
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onWarns(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	warnings, errList := h.moderation.Warnings(ctx, interaction.GuildID, interaction.Member.User.ID, targetID)
	if errList != nil {
		return nil, errList
	}

	msgEmbed := discord.NewEmbed("Warnings")
	msgEmbed.Embed().SetColor(discord.ColourInfo)
	msgEmbed.AddMember("Member", targetID)

	if len(warnings) == 0 {
		msgEmbed.Embed().SetDescription("No warnings on record.")

		return msgEmbed.Message(), nil
	}

	var lines []string
	for _, warned := range warnings {
		lines = append(lines, fmt.Sprintf("`#%d` %s", warned.WarningID, warned.Reason))
	}

	msgEmbed.Embed().SetDescription(strings.Join(lines, "\n"))

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onClearWarns(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	if errClear := h.moderation.ClearWarnings(ctx, interaction.GuildID, interaction.Member.User.ID, targetID); errClear != nil {
		return nil, errClear
	}

	msgEmbed := discord.NewEmbed("Warnings Cleared")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onMute(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	minutes := opts[discord.OptDuration].IntValue()
	reason := opts[discord.OptReason].StringValue()

	duration := time.Duration(minutes) * time.Minute

	if errMute := h.moderation.Mute(ctx, interaction.GuildID, interaction.Member.User.ID,
		targetID, duration, reason); errMute != nil {
		return nil, errMute
	}

	msgEmbed := discord.NewEmbed("Member Muted", reason)
	msgEmbed.Embed().SetColor(discord.ColourWarn)
	msgEmbed.AddMember("Member", targetID)
	msgEmbed.Embed().AddField("Duration", duration.String()).MakeFieldInline()

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onUnmute(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	if errUnmute := h.moderation.Unmute(ctx, interaction.GuildID, interaction.Member.User.ID, targetID); errUnmute != nil {
		return nil, errUnmute
	}

	msgEmbed := discord.NewEmbed("Member Unmuted")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onBan(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	reason := opts[discord.OptReason].StringValue()

	if errBan := h.moderation.Ban(ctx, interaction.GuildID, interaction.Member.User.ID, targetID, reason); errBan != nil {
		return nil, errBan
	}

	msgEmbed := discord.NewEmbed("Member Banned", reason)
	msgEmbed.Embed().SetColor(discord.ColourError)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onUnban(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	if errUnban := h.moderation.Unban(ctx, interaction.GuildID, interaction.Member.User.ID, targetID); errUnban != nil {
		return nil, errUnban
	}

	msgEmbed := discord.NewEmbed("Member Unbanned")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onDenyListAdd(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	reason := opts[discord.OptReason].StringValue()

	if errAdd := h.moderation.DenyListAdd(ctx, interaction.GuildID, interaction.Member.User.ID, targetID, reason); errAdd != nil {
		return nil, errAdd
	}

	msgEmbed := discord.NewEmbed("Deny-List Addition", reason)
	msgEmbed.Embed().SetColor(discord.ColourError)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onDenyListRemove(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	if errRemove := h.moderation.DenyListRemove(ctx, interaction.GuildID, interaction.Member.User.ID, targetID); errRemove != nil {
		return nil, errRemove
	}

	msgEmbed := discord.NewEmbed("Deny-List Removal")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onDenyListCheck(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interactionTarget(session, interaction)

	entry, found, errCheck := h.moderation.DenyListCheck(ctx, interaction.GuildID, interaction.Member.User.ID, targetID)
	if errCheck != nil {
		return nil, errCheck
	}

	if !found {
		msgEmbed := discord.NewEmbed("Deny-List Check", "Member is not on the deny-list.")
		msgEmbed.Embed().SetColor(discord.ColourSuccess)
		msgEmbed.AddMember("Member", targetID)

		return msgEmbed.Message(), nil
	}

	msgEmbed := discord.NewEmbed("Deny-List Check", entry.Reason)
	msgEmbed.Embed().SetColor(discord.ColourError)
	msgEmbed.AddMember("Member", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) grantPoints(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate, sign int64,
) (*discordgo.MessageEmbed, error) {
	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	targetID := opts[discord.OptMember].UserValue(session).ID
	amount := opts[discord.OptAmount].IntValue()

	balance, errGrant := h.moderation.GrantPoints(ctx, interaction.GuildID, interaction.Member.User.ID,
		targetID, sign*amount)
	if errGrant != nil {
		return nil, errGrant
	}

	msgEmbed := discord.NewEmbed("Points Adjusted")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)
	msgEmbed.Embed().AddField("Change", fmt.Sprintf("%+d", sign*amount)).MakeFieldInline()
	msgEmbed.Embed().AddField("Balance", fmt.Sprintf("%d", balance)).MakeFieldInline()

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onAddPoints(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	return h.grantPoints(ctx, session, interaction, 1)
}

func (h *discordHandler) onRemovePoints(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	return h.grantPoints(ctx, session, interaction, -1)
}
