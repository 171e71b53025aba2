package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

// NullPlatform satisfies domain.Platform without a live session. It is used
// when the bot is disabled and by the test fixtures.
type NullPlatform struct{}

var _ domain.Platform = (*NullPlatform)(nil)

func NewNullPlatform() *NullPlatform {
	return &NullPlatform{}
}

func (n *NullPlatform) HasAdminPermission(_ context.Context, _ string, _ string) (bool, error) {
	return false, nil
}

func (n *NullPlatform) MemberRoles(_ context.Context, _ string, _ string) ([]string, error) {
	return nil, nil
}

func (n *NullPlatform) RoleMembers(_ context.Context, _ string, _ string) ([]string, error) {
	return nil, nil
}

func (n *NullPlatform) AddRole(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

func (n *NullPlatform) GuildIDs() []string {
	return nil
}

func (n *NullPlatform) SendDirectMessage(_ context.Context, _ string, _ string) error {
	return nil
}

func (n *NullPlatform) SendChannelMessage(_ string, _ *discordgo.MessageEmbed) error {
	return nil
}

func (n *NullPlatform) ApplyTimeout(_ context.Context, _ string, _ string, _ time.Duration, _ string) error {
	return nil
}

func (n *NullPlatform) ClearTimeout(_ context.Context, _ string, _ string) error {
	return nil
}

func (n *NullPlatform) BanMember(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

func (n *NullPlatform) UnbanMember(_ context.Context, _ string, _ string) error {
	return nil
}
