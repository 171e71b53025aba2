package auth

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/discord"
)

type discordHandler struct {
	authorizer Authorizer
}

func RegisterDiscordCommands(bot *discord.Bot, authorizer Authorizer) {
	optRole := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        discord.OptRole,
		Description: "Role granted or revoked moderator capability",
		Required:    true,
	}

	handler := &discordHandler{authorizer: authorizer}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "addmodrole",
		Description:              "Grant a role moderator capability",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optRole},
	}, handler.onAddModRole)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "delmodrole",
		Description:              "Revoke moderator capability from a role",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options:                  []*discordgo.ApplicationCommandOption{optRole},
	}, handler.onDelModRole)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "modroles",
		Description:              "List the roles holding moderator capability",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
	}, handler.onModRoles)
}

func (h *discordHandler) onAddModRole(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	role := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptRole].
		RoleValue(session, interaction.GuildID)

	if errAdd := h.authorizer.RegisterModRole(ctx, interaction.GuildID, role.ID); errAdd != nil {
		return nil, errAdd
	}

	msgEmbed := discord.NewEmbed("Moderator Role Added", "**"+role.Name+"** now holds moderator capability.")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onDelModRole(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	role := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptRole].
		RoleValue(session, interaction.GuildID)

	if errRemove := h.authorizer.UnregisterModRole(ctx, interaction.GuildID, role.ID); errRemove != nil {
		return nil, errRemove
	}

	msgEmbed := discord.NewEmbed("Moderator Role Removed", "**"+role.Name+"** no longer holds moderator capability.")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onModRoles(ctx context.Context, _ *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	roles, errRoles := h.authorizer.ModRoles(ctx, interaction.GuildID)
	if errRoles != nil {
		return nil, errRoles
	}

	msgEmbed := discord.NewEmbed("Moderator Roles")
	msgEmbed.Embed().SetColor(discord.ColourInfo)

	if len(roles) == 0 {
		msgEmbed.Embed().SetDescription("No moderator roles registered.")

		return msgEmbed.Message(), nil
	}

	var mentions []string
	for _, roleID := range roles {
		mentions = append(mentions, "<@&"+roleID+">")
	}

	msgEmbed.Embed().SetDescription(strings.Join(mentions, "\n"))

	return msgEmbed.Message(), nil
}
