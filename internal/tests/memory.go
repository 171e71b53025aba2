// Package tests provides in-memory repository and platform implementations
// used by the package test suites.
package tests

import (
	"context"
	"sort"
	"sync"

	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/internal/domain"
)

type memberKey struct {
	guildID  string
	memberID string
}

type settingKey struct {
	guildID string
	key     string
}

type MemorySettingsRepository struct {
	mu     sync.Mutex
	values map[settingKey]int64
}

func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{values: map[settingKey]int64{}}
}

func (r *MemorySettingsRepository) Get(_ context.Context, guildID string, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, found := r.values[settingKey{guildID, key}]
	if !found {
		return 0, database.ErrNoResult
	}

	return value, nil
}

func (r *MemorySettingsRepository) Set(_ context.Context, guildID string, key string, value int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[settingKey{guildID, key}] = value

	return nil
}

func (r *MemorySettingsRepository) Delete(_ context.Context, guildID string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, settingKey{guildID, key})

	return nil
}

type MemoryPointsRepository struct {
	mu       sync.Mutex
	balances map[memberKey]int64
}

func NewMemoryPointsRepository() *MemoryPointsRepository {
	return &MemoryPointsRepository{balances: map[memberKey]int64{}}
}

func (r *MemoryPointsRepository) Adjust(_ context.Context, guildID string, memberID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{guildID, memberID}
	r.balances[key] += delta

	return r.balances[key], nil
}

func (r *MemoryPointsRepository) Balance(_ context.Context, guildID string, memberID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, found := r.balances[memberKey{guildID, memberID}]
	if !found {
		return 0, database.ErrNoResult
	}

	return value, nil
}

func (r *MemoryPointsRepository) Balances(_ context.Context, guildID string) ([]domain.PointBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var balances []domain.PointBalance

	for key, value := range r.balances {
		if key.guildID != guildID {
			continue
		}

		balances = append(balances, domain.PointBalance{GuildID: key.guildID, MemberID: key.memberID, Value: value})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Value > balances[j].Value
	})

	return balances, nil
}

func (r *MemoryPointsRepository) ResetGuild(_ context.Context, guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.balances {
		if key.guildID == guildID {
			r.balances[key] = 0
		}
	}

	return nil
}

type MemoryWarningRepository struct {
	mu       sync.Mutex
	nextID   int64
	warnings []domain.Warning
}

func NewMemoryWarningRepository() *MemoryWarningRepository {
	return &MemoryWarningRepository{nextID: 1}
}

func (r *MemoryWarningRepository) Add(_ context.Context, warning *domain.Warning) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	warning.WarningID = r.nextID
	r.nextID++
	r.warnings = append(r.warnings, *warning)

	return nil
}

func (r *MemoryWarningRepository) List(_ context.Context, guildID string, memberID string) ([]domain.Warning, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Warning

	for _, warning := range r.warnings {
		if warning.GuildID == guildID && warning.MemberID == memberID {
			matched = append(matched, warning)
		}
	}

	return matched, nil
}

func (r *MemoryWarningRepository) RemoveOne(_ context.Context, guildID string, memberID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, warning := range r.warnings {
		if warning.GuildID == guildID && warning.MemberID == memberID && warning.Reason == reason {
			r.warnings = append(r.warnings[:idx], r.warnings[idx+1:]...)

			return nil
		}
	}

	return database.ErrNoResult
}

func (r *MemoryWarningRepository) RemoveAll(_ context.Context, guildID string, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []domain.Warning

	for _, warning := range r.warnings {
		if warning.GuildID != guildID || warning.MemberID != memberID {
			kept = append(kept, warning)
		}
	}

	r.warnings = kept

	return nil
}

type MemoryDenyListRepository struct {
	mu      sync.Mutex
	entries map[memberKey]domain.DenyListEntry
}

func NewMemoryDenyListRepository() *MemoryDenyListRepository {
	return &MemoryDenyListRepository{entries: map[memberKey]domain.DenyListEntry{}}
}

func (r *MemoryDenyListRepository) Upsert(_ context.Context, entry domain.DenyListEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{entry.GuildID, entry.MemberID}
	if existing, found := r.entries[key]; found {
		existing.Reason = entry.Reason
		r.entries[key] = existing

		return nil
	}

	r.entries[key] = entry

	return nil
}

func (r *MemoryDenyListRepository) Remove(_ context.Context, guildID string, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, memberKey{guildID, memberID})

	return nil
}

func (r *MemoryDenyListRepository) Get(_ context.Context, guildID string, memberID string) (domain.DenyListEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, found := r.entries[memberKey{guildID, memberID}]
	if !found {
		return domain.DenyListEntry{}, database.ErrNoResult
	}

	return entry, nil
}

type MemoryModRoleRepository struct {
	mu    sync.Mutex
	roles map[string][]string
}

func NewMemoryModRoleRepository() *MemoryModRoleRepository {
	return &MemoryModRoleRepository{roles: map[string][]string{}}
}

func (r *MemoryModRoleRepository) Add(_ context.Context, guildID string, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roles[guildID] {
		if existing == roleID {
			return nil
		}
	}

	r.roles[guildID] = append(r.roles[guildID], roleID)

	return nil
}

func (r *MemoryModRoleRepository) Remove(_ context.Context, guildID string, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []string

	for _, existing := range r.roles[guildID] {
		if existing != roleID {
			kept = append(kept, existing)
		}
	}

	r.roles[guildID] = kept

	return nil
}

func (r *MemoryModRoleRepository) Roles(_ context.Context, guildID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.roles[guildID]...), nil
}

type MemoryRosterRepository struct {
	mu      sync.Mutex
	members map[string][]string
}

func NewMemoryRosterRepository() *MemoryRosterRepository {
	return &MemoryRosterRepository{members: map[string][]string{}}
}

func (r *MemoryRosterRepository) Add(_ context.Context, guildID string, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.members[guildID] {
		if existing == memberID {
			return nil
		}
	}

	r.members[guildID] = append(r.members[guildID], memberID)

	return nil
}

func (r *MemoryRosterRepository) Members(_ context.Context, guildID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.members[guildID]...), nil
}

func (r *MemoryRosterRepository) Clear(_ context.Context, guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.members, guildID)

	return nil
}
