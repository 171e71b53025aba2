package points

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/discord"
)

type discordHandler struct {
	points Points
}

func RegisterDiscordCommands(bot *discord.Bot, pointsEngine Points) {
	handler := &discordHandler{points: pointsEngine}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:         "points",
		Description:  "Show the current activity point balance",
		DMPermission: &discord.DmPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        discord.OptMember,
				Description: "Member to look up, defaults to yourself",
				Required:    false,
			},
		},
	}, handler.onPoints)
}

func (h *discordHandler) onPoints(ctx context.Context, session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	targetID := interaction.Member.User.ID

	opts := discord.OptionMap(interaction.ApplicationCommandData().Options)
	if opt, found := opts[discord.OptMember]; found {
		targetID = opt.UserValue(session).ID
	}

	balance, errBalance := h.points.Balance(ctx, interaction.GuildID, targetID)
	if errBalance != nil {
		return nil, errBalance
	}

	msgEmbed := discord.NewEmbed("Activity Points")
	msgEmbed.Embed().SetColor(discord.ColourInfo)
	msgEmbed.AddMember("Member", targetID)
	msgEmbed.Embed().AddField("Balance", fmt.Sprintf("%d", balance)).MakeFieldInline()

	return msgEmbed.Message(), nil
}
