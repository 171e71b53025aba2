package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/discord"
)

var errQuotaNotConfigured = errors.New("quota enforcement is not configured for this guild")

type discordHandler struct {
	scheduler *Scheduler
}

// RegisterDiscordCommands adds the staff compliance table. The table renders
// against live balances, it does not trigger an audit.
func RegisterDiscordCommands(bot *discord.Bot, scheduler *Scheduler) {
	handler := &discordHandler{scheduler: scheduler}

	bot.MustRegisterHandler(&discordgo.ApplicationCommand{
		Name:         "table",
		Description:  "Show staff activity points against the weekly quota",
		DMPermission: &discord.DmPerms,
	}, handler.onTable)
}

func (h *discordHandler) onTable(ctx context.Context, _ *discordgo.Session,
	interaction *discordgo.InteractionCreate,
) (*discordgo.MessageEmbed, error) {
	guildID := interaction.GuildID

	staffRole, roleSet, errRole := h.scheduler.settings.AdminRole(ctx, guildID)
	if errRole != nil {
		return nil, errRole
	}

	if !roleSet {
		return nil, errQuotaNotConfigured
	}

	quota, _, errQuota := h.scheduler.settings.QuotaAmount(ctx, guildID)
	if errQuota != nil {
		return nil, errQuota
	}

	members, errMembers := h.scheduler.platform.RoleMembers(ctx, guildID, staffRole)
	if errMembers != nil {
		return nil, errMembers
	}

	msgEmbed := discord.NewEmbed("Staff Activity")
	msgEmbed.Embed().SetColor(discord.ColourInfo)

	if len(members) == 0 {
		msgEmbed.Embed().SetDescription("Nobody holds the staff role.")

		return msgEmbed.Message(), nil
	}

	var lines []string

	for _, memberID := range members {
		balance, errBalance := h.scheduler.points.Balance(ctx, guildID, memberID)
		if errBalance != nil {
			return nil, errBalance
		}

		status := "❌"
		if balance >= quota {
			status = "✅"
		}

		lines = append(lines, fmt.Sprintf("%s <@%s>: `%d/%d`", status, memberID, balance, quota))
	}

	msgEmbed.Embed().SetDescription(strings.Join(lines, "\n"))

	return msgEmbed.Message(), nil
}
