package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/discord"
)

type discordHandler struct {
	roster     Roster
	authorizer auth.Authorizer
}

func RegisterDiscordCommands(bot *discord.Bot, roster Roster, authorizer auth.Authorizer) {
	handler := &discordHandler{roster: roster, authorizer: authorizer}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "accept",
		Description:              "Accept a staff candidate to the interview stage",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        discord.OptMember,
				Description: "Candidate to accept",
				Required:    true,
			},
		},
	}, handler.onAccept)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "candidates",
		Description:              "List accepted staff candidates",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
	}, handler.onCandidates)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "callup",
		Description:              "Message every candidate and clear the roster",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
	}, handler.onCallUp)

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:                     "promote",
		Description:              "Grant the configured staff role to a member",
		DMPermission:             &discord.DmPerms,
		DefaultMemberPermissions: &discord.AdminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        discord.OptMember,
				Description: "Member joining the staff team",
				Required:    true,
			},
		},
	}, handler.onPromote)
}

func (h *discordHandler) onAccept(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	targetID := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptMember].
		UserValue(session).ID

	if errAccept := h.roster.Accept(ctx, interaction.GuildID, targetID); errAccept != nil {
		return nil, errAccept
	}

	msgEmbed := discord.NewEmbed("Candidate Accepted")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Candidate", targetID)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onCandidates(ctx context.Context, _ *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	members, errList := h.roster.List(ctx, interaction.GuildID)
	if errList != nil {
		return nil, errList
	}

	msgEmbed := discord.NewEmbed("Candidates")
	msgEmbed.Embed().SetColor(discord.ColourInfo)

	if len(members) == 0 {
		msgEmbed.Embed().SetDescription("The roster is empty.")

		return msgEmbed.Message(), nil
	}

	var mentions []string
	for _, memberID := range members {
		mentions = append(mentions, "<@"+memberID+">")
	}

	msgEmbed.Embed().SetDescription(strings.Join(mentions, "\n"))

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onCallUp(ctx context.Context, _ *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	count, errCall := h.roster.CallUp(ctx, interaction.GuildID)
	if errCall != nil {
		return nil, errCall
	}

	msgEmbed := discord.NewEmbed("Call Up Complete", fmt.Sprintf("Messaged %d candidates and cleared the roster.", count))
	msgEmbed.Embed().SetColor(discord.ColourSuccess)

	return msgEmbed.Message(), nil
}

func (h *discordHandler) onPromote(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	if errPerm := h.authorizer.RequireAdmin(ctx, interaction.GuildID, interaction.Member.User.ID); errPerm != nil {
		return nil, errPerm
	}

	targetID := discord.OptionMap(interaction.ApplicationCommandData().Options)[discord.OptMember].
		UserValue(session).ID

	roleID, errPromote := h.roster.Promote(ctx, interaction.GuildID, targetID)
	if errPromote != nil {
		return nil, errPromote
	}

	msgEmbed := discord.NewEmbed("Member Promoted")
	msgEmbed.Embed().SetColor(discord.ColourSuccess)
	msgEmbed.AddMember("Member", targetID)
	msgEmbed.Embed().AddField("Role", "<@&"+roleID+">").MakeFieldInline()

	return msgEmbed.Message(), nil
}
