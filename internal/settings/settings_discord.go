package settings

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/discord"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type discordHandler struct {
	settings   Settings
	authorizer auth.Authorizer
}

func RegisterDiscordCommands(bot *discord.Bot, guildSettings Settings, authorizer auth.Authorizer) {
	handler := &discordHandler{settings: guildSettings, authorizer: authorizer}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "set_quota",
		Description:              "Set the weekly activity point quota",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        discord.OptAmount,
				Description: "Points each staff member must earn per week",
				Required:    true,
			},
		},
	}, handler.onSetQuota)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "set_admin_role",
		Description:              "Set the staff role audited by the weekly quota",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        discord.OptRole,
				Description: "Staff role",
				Required:    true,
			},
		},
	}, handler.onSetAdminRole)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "set_logs",
		Description:              "Set the channel receiving action and audit logs",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        discord.OptChannel,
				Description: "Log channel",
				Required:    true,
			},
		},
	}, handler.onSetLogs)
}

func (h *discordHandler) onSetQuota(ctx context.Context, _ *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	amount := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptAmount].IntValue()
	if amount < 0 {
		return nil, fmt.Errorf("%w: quota cannot be negative", domain.ErrInvalidParameter)
	}

	if errSet := h.settings.Set(ctx, interaction.GuildID, domain.KeyQuotaAmount, amount); errSet != nil {
		return nil, errSet
	}

	msgEmbed := discord.NewEmbed("Quota Updated", fmt.Sprintf("Weekly quota set to `%d` points.", amount))
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onSetAdminRole(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	role := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptRole].
		RoleValue(session, interaction.GuildID)

	if errSet := h.settings.SetSnowflake(ctx, interaction.GuildID, domain.KeyAdminRole, role.ID); errSet != nil {
		return nil, errSet
	}

	msgEmbed := discord.NewEmbed("Staff Role Updated", fmt.Sprintf("Quota now audits members of **%s**.", role.Name))
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onSetLogs(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	channel := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptChannel].
		ChannelValue(session)

	if errSet := h.settings.SetSnowflake(ctx, interaction.GuildID, domain.KeyLogChannel, channel.ID); errSet != nil {
		return nil, errSet
	}

	msgEmbed := discord.NewEmbed("Log Channel Updated", fmt.Sprintf("Logs now go to <#%s>.", channel.ID))
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}
