package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absence-bot/internal/models"
	"absence-bot/internal/repository"
	"absence-bot/internal/service"
	"absence-bot/pkg/dates"
	"absence-bot/pkg/discord"
)

type absenceFixture struct {
	svc     *service.AbsenceService
	records repository.AbsenceRecordRepository
	configs repository.GuildConfigRepository
	gateway *fakeGateway
	role    *discord.Role
	member  *discord.Member
}

func newAbsenceFixture(t *testing.T) *absenceFixture {
	t.Helper()
	db := openTestDB(t)
	records, err := repository.NewGormAbsenceRecordRepository(db)
	require.NoError(t, err)
	configs, err := repository.NewGormGuildConfigRepository(db)
	require.NoError(t, err)

	gateway := newFakeGateway()
	gateway.addGuild(testGuildID, testGuildName)
	role := gateway.addRole(testGuildID, models.DefaultRoleName)
	member := gateway.addMember(testGuildID, testUserID, testUsername)

	svc := service.NewAbsenceService(records, configs, gateway, testLogger())
	return &absenceFixture{
		svc:     svc,
		records: records,
		configs: configs,
		gateway: gateway,
		role:    role,
		member:  member,
	}
}

func (f *absenceFixture) storedRecord(t *testing.T) *models.AbsenceRecord {
	t.Helper()
	record, err := f.records.GetByKey(testUserID, testGuildID)
	require.NoError(t, err)
	return record
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := dates.Parse(s)
	require.NoError(t, err)
	return day
}

func TestSetAbsenceStoresRecordAndGrantsRole(t *testing.T) {
	f := newAbsenceFixture(t)

	until := mustParse(t, "15.04.2024")
	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, until))

	record := f.storedRecord(t)
	require.NotNil(t, record)
	assert.Equal(t, "15.04.2024", record.ReturnDate)
	assert.False(t, record.Notified)

	require.Len(t, f.gateway.setRoleCalls, 1)
	assert.True(t, f.gateway.setRoleCalls[0].Grant)
	assert.True(t, f.member.HasRole(f.role.ID))
}

func TestSetAbsenceRollsBackWhenRoleGrantFails(t *testing.T) {
	f := newAbsenceFixture(t)
	f.gateway.failSetRole = true

	err := f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024"))
	require.ErrorIs(t, err, service.ErrRoleModify)

	assert.Nil(t, f.storedRecord(t))
}

func TestSetAbsenceRollsBackWhenRoleUndefined(t *testing.T) {
	f := newAbsenceFixture(t)
	delete(f.gateway.roles[testGuildID], models.DefaultRoleName)

	err := f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024"))
	require.ErrorIs(t, err, service.ErrRoleModify)

	assert.Nil(t, f.storedRecord(t))
	assert.Empty(t, f.gateway.setRoleCalls)
}

func TestSetAbsenceOverwritesExisting(t *testing.T) {
	f := newAbsenceFixture(t)

	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024")))
	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "22.04.2024")))

	record := f.storedRecord(t)
	require.NotNil(t, record)
	assert.Equal(t, "22.04.2024", record.ReturnDate)

	all, err := f.records.ListByGuild(testGuildID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestExtendToResetsNotified(t *testing.T) {
	f := newAbsenceFixture(t)

	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024")))
	record := f.storedRecord(t)
	require.NoError(t, f.records.ApplySweep([]models.AbsenceRecord{*record}, nil))
	require.True(t, f.storedRecord(t).Notified)

	require.NoError(t, f.svc.ExtendTo(testGuildID, testUserID, mustParse(t, "29.04.2024")))

	record = f.storedRecord(t)
	require.NotNil(t, record)
	assert.Equal(t, "29.04.2024", record.ReturnDate)
	assert.False(t, record.Notified)
}

func TestExtendToWithoutRecord(t *testing.T) {
	f := newAbsenceFixture(t)

	err := f.svc.ExtendTo(testGuildID, testUserID, mustParse(t, "29.04.2024"))
	require.ErrorIs(t, err, service.ErrNoActiveAbsence)
}

func TestExtendByWeeks(t *testing.T) {
	f := newAbsenceFixture(t)
	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "01.03.2024")))

	extended, err := f.svc.ExtendByWeeks(testGuildID, testUserID, 2)
	require.NoError(t, err)
	assert.Equal(t, mustParse(t, "15.03.2024"), extended)

	record := f.storedRecord(t)
	require.NotNil(t, record)
	assert.Equal(t, "15.03.2024", record.ReturnDate)
	assert.False(t, record.Notified)
}

func TestExtendByWeeksBadStoredDate(t *testing.T) {
	f := newAbsenceFixture(t)
	require.NoError(t, f.records.Upsert(&models.AbsenceRecord{
		UserID:     testUserID,
		GuildID:    testGuildID,
		Username:   testUsername,
		ReturnDate: "not-a-date",
	}))

	_, err := f.svc.ExtendByWeeks(testGuildID, testUserID, 2)
	require.ErrorIs(t, err, service.ErrBadStoredDate)
}

func TestEndAbsence(t *testing.T) {
	f := newAbsenceFixture(t)
	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024")))
	require.True(t, f.member.HasRole(f.role.ID))

	require.NoError(t, f.svc.EndAbsence(testGuildID, testUserID))

	assert.Nil(t, f.storedRecord(t))
	assert.False(t, f.member.HasRole(f.role.ID))

	err := f.svc.EndAbsence(testGuildID, testUserID)
	require.ErrorIs(t, err, service.ErrNoActiveAbsence)
}

func TestAbsenceEventsReachLoggingChannel(t *testing.T) {
	f := newAbsenceFixture(t)
	channelID := testLogChanID
	_, err := f.configs.Update(testGuildID, repository.GuildConfigPatch{LoggingChannelID: &channelID})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetAbsence(testGuildID, testUserID, testUsername, mustParse(t, "15.04.2024")))
	require.NoError(t, f.svc.EndAbsence(testGuildID, testUserID))

	require.Len(t, f.gateway.logCalls, 2)
	assert.Equal(t, testLogChanID, f.gateway.logCalls[0].ChannelID)
	assert.Contains(t, f.gateway.logCalls[0].Message, "15.04.2024")
}
