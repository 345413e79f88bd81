package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "только дата",
			input: "2024-01-01",
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "дата и время без зоны",
			input: "2024-02-01T10:30:00",
			want:  time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 со смещением",
			input: "2024-03-01T00:00:00+03:00",
			want:  time.Date(2024, 2, 29, 21, 0, 0, 0, time.UTC),
		},
		{name: "мусор", input: "not-a-date", wantErr: true},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "формат дд-мм-гггг", input: "01-02-2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestUserMapping(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	user := ToUserEntity(models.UserRequest{UserName: "Ann", Email: "ann@x.com"}, created)
	assert.Zero(t, user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.Equal(t, created, user.UpdatedAt)

	user.ID = 5
	UpdateUserEntity(&user, models.UserRequest{UserName: "Anna", Email: "anna@x.com"}, updated)
	assert.Equal(t, models.User{
		ID: 5, UserName: "Anna", Email: "anna@x.com", CreatedAt: created, UpdatedAt: updated,
	}, user)

	dto := ToUserDTO(&user)
	assert.Equal(t, &models.UserDTO{
		ID: 5, UserName: "Anna", Email: "anna@x.com", CreatedAt: created, UpdatedAt: updated,
	}, dto)

	assert.Nil(t, ToUserDTO(nil))
}

func TestToSubscriptionEntity(t *testing.T) {
	t.Run("валидные даты", func(t *testing.T) {
		sub, err := ToSubscriptionEntity(models.SubscriptionRequest{
			ServiceName: "Netflix",
			StartDate:   "2024-01-01",
			EndDate:     "2024-02-01T00:00:00",
		}, 7)
		require.NoError(t, err)
		assert.Equal(t, "Netflix", sub.ServiceName)
		assert.Equal(t, int64(7), sub.UserID)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), sub.EndDate)
	})

	t.Run("битая дата начала", func(t *testing.T) {
		_, err := ToSubscriptionEntity(models.SubscriptionRequest{
			ServiceName: "Netflix", StartDate: "yesterday", EndDate: "2024-02-01",
		}, 7)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.ErrorContains(t, err, "start_date")
	})

	t.Run("битая дата окончания", func(t *testing.T) {
		_, err := ToSubscriptionEntity(models.SubscriptionRequest{
			ServiceName: "Netflix", StartDate: "2024-01-01", EndDate: "tomorrow",
		}, 7)
		assert.ErrorIs(t, err, common.ErrValidation)
		assert.ErrorContains(t, err, "end_date")
	})
}

func TestSubscriptionRoundTrip(t *testing.T) {
	sub := &models.Subscription{
		ID:          3,
		ServiceName: "Spotify",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		UserID:      9,
	}

	back := SubscriptionFromDTO(ToSubscriptionDTO(sub))
	assert.Equal(t, sub, back)

	assert.Nil(t, ToSubscriptionDTO(nil))
	assert.Nil(t, SubscriptionFromDTO(nil))
}

func TestToSubscriptionDTOs(t *testing.T) {
	assert.Equal(t, []models.SubscriptionDTO{}, ToSubscriptionDTOs(nil))

	dtos := ToSubscriptionDTOs([]models.Subscription{
		{ID: 1, ServiceName: "A", UserID: 1},
		{ID: 2, ServiceName: "B", UserID: 1},
	})
	require.Len(t, dtos, 2)
	assert.Equal(t, "A", dtos[0].ServiceName)
	assert.Equal(t, int64(2), dtos[1].ID)
}

func TestToTopSubscriptionDTOs(t *testing.T) {
	assert.Equal(t, []models.TopSubscriptionDTO{}, ToTopSubscriptionDTOs(nil))

	got := ToTopSubscriptionDTOs([]models.TopSubscription{
		{ServiceName: "Netflix", SubscriberCount: 5},
		{ServiceName: "HBO", SubscriberCount: 3},
	})
	assert.Equal(t, []models.TopSubscriptionDTO{
		{ServiceName: "Netflix", SubscriberCount: 5},
		{ServiceName: "HBO", SubscriberCount: 3},
	}, got)
}
