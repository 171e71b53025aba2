package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dsemenov-dev/dutymeter/internal/auth"
	"github.com/dsemenov-dev/dutymeter/internal/config"
	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/denylist"
	"github.com/dsemenov-dev/dutymeter/internal/discord"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
	"github.com/dsemenov-dev/dutymeter/internal/metrics"
	"github.com/dsemenov-dev/dutymeter/internal/moderation"
	"github.com/dsemenov-dev/dutymeter/internal/points"
	"github.com/dsemenov-dev/dutymeter/internal/quota"
	"github.com/dsemenov-dev/dutymeter/internal/roster"
	"github.com/dsemenov-dev/dutymeter/internal/settings"
	"github.com/dsemenov-dev/dutymeter/internal/warning"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

type DutyMeter struct {
	conf       config.Config
	database   database.Database
	platform   domain.Platform
	bot        *discord.Bot
	settings   settings.Settings
	points     points.Points
	warnings   warning.Warnings
	denyList   denylist.DenyList
	authorizer auth.Authorizer
	roster     roster.Roster
	moderation moderation.Moderation
	scheduler  *quota.Scheduler
	sentry     *sentry.Client

	logCloser func()
}

func NewDutyMeter() (*DutyMeter, error) {
	conf, errConfig := config.ReadStaticConfig(cfgFile)
	if errConfig != nil {
		slog.Error("Failed to read static config", log.ErrAttr(errConfig))

		return nil, errConfig
	}

	return &DutyMeter{conf: conf}, nil
}

func (d *DutyMeter) Init(ctx context.Context) error {
	sentryDSN := d.conf.Sentry.DSN
	if sentryDSN == "" {
		if value, found := os.LookupEnv("SENTRY_DSN"); found && value != "" {
			sentryDSN = value
		}
	}

	d.setupSentry(sentryDSN)

	d.logCloser = log.MustCreateLogger(ctx, d.conf.Log.File, d.conf.Log.Level, sentryDSN != "", BuildVersion)

	slog.Info("Starting dutymeter...",
		slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit),
		slog.String("date", BuildDate))

	dbConn := database.New(d.conf.DB.DSN, d.conf.DB.AutoMigrate, d.conf.DB.LogQueries)
	if errConnect := dbConn.Connect(ctx); errConnect != nil {
		slog.Error("Cannot initialize database", log.ErrAttr(errConnect))

		return errConnect
	}
	d.database = dbConn

	if d.conf.Discord.Enabled {
		bot, errBot := discord.NewBot(d.conf.Discord.AppID, d.conf.Discord.Token)
		if errBot != nil {
			return errBot
		}

		d.bot = bot
		d.platform = bot
	} else {
		d.platform = discord.NewNullPlatform()
	}

	d.settings = settings.NewSettings(settings.NewSettingsRepository(d.database))
	d.points = points.NewPoints(points.NewPointsRepository(d.database))
	d.warnings = warning.NewWarnings(warning.NewWarningRepository(d.database))
	d.denyList = denylist.NewDenyList(denylist.NewDenyListRepository(d.database))
	d.authorizer = auth.NewAuthorizer(auth.NewModRoleRepository(d.database), d.platform)
	d.roster = roster.NewRoster(roster.NewRosterRepository(d.database), d.settings, d.platform)
	d.moderation = moderation.NewModeration(d.authorizer, d.warnings, d.denyList,
		d.points, d.settings, d.platform)
	d.scheduler = quota.NewScheduler(d.settings, d.points, d.platform, d.conf.Quota.Period)

	return nil
}

func (d *DutyMeter) setupSentry(sentryDSN string) {
	if sentryDSN == "" {
		slog.Info("Sentry.io support is disabled. To enable at runtime, set SENTRY_DSN.")

		return
	}

	sentryClient, errSentry := log.NewSentryClient(sentryDSN, true, 0.25, BuildVersion)
	if errSentry != nil {
		slog.Error("Failed to setup sentry client")

		return
	}

	d.sentry = sentryClient
}

func (d *DutyMeter) startBot() error {
	if d.bot == nil {
		return nil
	}

	settings.RegisterDiscordCommands(d.bot, d.settings, d.authorizer)
	auth.RegisterDiscordCommands(d.bot, d.authorizer)
	points.RegisterDiscordCommands(d.bot, d.points)
	moderation.RegisterDiscordCommands(d.bot, d.moderation)
	roster.RegisterDiscordCommands(d.bot, d.roster, d.authorizer)
	quota.RegisterDiscordCommands(d.bot, d.scheduler)

	return d.bot.Start()
}

func (d *DutyMeter) StartBackground(ctx context.Context) {
	go d.scheduler.Start(ctx)

	if d.conf.Metrics.Enabled {
		go metrics.Serve(ctx, d.conf.Metrics.Addr)
	}
}

func (d *DutyMeter) Close(_ context.Context) error {
	if d.bot != nil {
		d.bot.Shutdown()
	}

	if d.database != nil {
		if errClose := d.database.Close(); errClose != nil {
			slog.Error("Failed to close database cleanly", log.ErrAttr(errClose))
		}
	}

	if d.sentry != nil {
		d.sentry.Flush(2 * time.Second)
	}

	if d.logCloser != nil {
		d.logCloser()
	}

	return nil
}
