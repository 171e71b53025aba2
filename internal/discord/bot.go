package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

// SlashCommandHandler is implemented by the feature packages. A returned embed
// is shown to the invoking user, a returned error becomes an error response.
type SlashCommandHandler func(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate) (*discordgo.MessageEmbed, error)

type Bot struct {
	session         *discordgo.Session
	isReady         atomic.Bool
	commandHandlers map[string]SlashCommandHandler
	commands        []*discordgo.ApplicationCommand
	appID           string
	token           string
}

func NewBot(appID string, token string) (*Bot, error) {
	if appID == "" || token == "" {
		return nil, ErrConfig
	}

	return &Bot{
		commandHandlers: map[string]SlashCommandHandler{},
		appID:           appID,
		token:           token,
	}, nil
}

// RegisterHandler must be called for every command before Start.
func (bot *Bot) RegisterHandler(command *discordgo.ApplicationCommand, handler SlashCommandHandler) error {
	if _, found := bot.commandHandlers[command.Name]; found {
		return ErrDuplicateCommand
	}

	bot.commandHandlers[command.Name] = handler
	bot.commands = append(bot.commands, command)

	return nil
}

// MustRegisterHandler is RegisterHandler for static startup wiring where a
// duplicate name is a programming error.
func (bot *Bot) MustRegisterHandler(command *discordgo.ApplicationCommand, handler SlashCommandHandler) {
	if err := bot.RegisterHandler(command, handler); err != nil {
		panic(err)
	}
}

func (bot *Bot) Start() error {
	session, errNewSession := discordgo.New("Bot " + bot.token)
	if errNewSession != nil {
		return errors.Join(errNewSession, ErrCreate)
	}

	session.UserAgent = "dutymeter (https://github.com/dsemenov-dev/dutymeter)"
	session.Identify.Intents |= discordgo.IntentsGuilds
	session.Identify.Intents |= discordgo.IntentGuildMembers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onConnect)
	session.AddHandler(bot.onDisconnect)
	session.AddHandler(bot.onInteractionCreate)
	session.StateEnabled = true

	bot.session = session

	if errSessionOpen := session.Open(); errSessionOpen != nil {
		return errors.Join(errSessionOpen, ErrOpen)
	}

	return nil
}

func (bot *Bot) Shutdown() {
	if bot.session != nil {
		defer log.Closer(bot.session)
	}
}

func (bot *Bot) Session() *discordgo.Session {
	return bot.session
}

func (bot *Bot) onReady(session *discordgo.Session, _ *discordgo.Ready) {
	slog.Info("Discord state changed", slog.String("state", "ready"), slog.String("username",
		fmt.Sprintf("%v#%v", session.State.User.Username, session.State.User.Discriminator)))
}

func (bot *Bot) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	if errRegister := bot.registerSlashCommands(); errRegister != nil {
		slog.Error("Failed to register discord slash commands", log.ErrAttr(errRegister))
	}

	status := discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "staff activity",
				Type: discordgo.ActivityTypeWatching,
			},
		},
		Status: "online",
	}
	if errUpdateStatus := bot.session.UpdateStatusComplex(status); errUpdateStatus != nil {
		slog.Error("Failed to update discord status", log.ErrAttr(errUpdateStatus))
	}

	slog.Info("Discord state changed", slog.String("state", "connected"))

	bot.isReady.Store(true)
}

func (bot *Bot) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	bot.isReady.Store(false)

	slog.Info("Discord state changed", slog.String("state", "disconnected"))
}

func (bot *Bot) registerSlashCommands() error {
	if _, errBulk := bot.session.ApplicationCommandBulkOverwrite(bot.appID, "", bot.commands); errBulk != nil {
		return errors.Join(errBulk, ErrCommandRegister)
	}

	slog.Info("Registered slash commands", slog.Int("count", len(bot.commands)))

	return nil
}

// onInteractionCreate dispatches application commands to the registered
// handler. A deferred response is sent first since handlers hit the database
// and discord times out interactions within a few seconds.
func (bot *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := interaction.ApplicationCommandData()

	handler, handlerFound := bot.commandHandlers[data.Name]
	if !handlerFound {
		return
	}

	initialResponse := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}

	if errRespond := session.InteractionRespond(interaction.Interaction, initialResponse); errRespond != nil {
		slog.Error("Failed sending initial response for interaction", log.ErrAttr(errRespond))

		return
	}

	commandCtx, cancelCommand := context.WithTimeout(context.Background(), time.Second*30)
	defer cancelCommand()

	response, errHandleCommand := handler(commandCtx, session, interaction)
	if errHandleCommand != nil || response == nil {
		response = errorMessage(data.Name, errHandleCommand)
	}

	if errSend := bot.sendInteractionResponse(session, interaction.Interaction, response); errSend != nil {
		slog.Error("Failed sending success response for interaction", log.ErrAttr(errSend))
	}
}

func errorMessage(command string, err error) *discordgo.MessageEmbed {
	msgEmbed := NewEmbed("Command Error")
	msgEmbed.Embed().SetColor(ColourError)

	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		msgEmbed.Embed().SetDescription("You do not have permission to use /" + command)
	case err != nil:
		msgEmbed.Embed().SetDescription(err.Error())
	default:
		msgEmbed.Embed().SetDescription("Command failed: /" + command)
	}

	return msgEmbed.Message()
}

func (bot *Bot) sendInteractionResponse(session *discordgo.Session, interaction *discordgo.Interaction, response *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{response}

	if _, errEdit := session.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}); errEdit != nil {
		if _, errFollow := session.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{
			Content: "Something went wrong",
		}); errFollow != nil {
			return errors.Join(errFollow, ErrMessageSend)
		}
	}

	return nil
}

// OptionMap indexes interaction options by name for the feature handlers.
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	optionM := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionM[opt.Name] = opt
	}

	return optionM
}
