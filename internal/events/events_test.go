package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresherjobs/marketplace-service/internal/events"
	"fresherjobs/marketplace-service/internal/model"
)

func TestRedisPublisher_Publish(t *testing.T) {
	t.Run("Should publish the notification as JSON on the type channel", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()
		ctx := context.Background()

		sub := rdb.Subscribe(ctx, events.TypeApplicationStatusChanged)
		defer sub.Close()
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		app := &model.Application{ID: "a-1", JobID: "j-1", SeekerID: "s-1", Status: model.StatusHired}
		events.NewRedisPublisher(rdb, nil).Publish(ctx, events.StatusChanged(app, "Go Intern"))

		select {
		case msg := <-sub.Channel():
			var n events.Notification
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &n))
			assert.Equal(t, "s-1", n.RecipientID)
			assert.Equal(t, "Great news! You have been hired for: Go Intern", n.Message)
			assert.Equal(t, "HIRED", n.Status)
			assert.False(t, n.At.IsZero())
		case <-time.After(2 * time.Second):
			t.Fatal("no message received")
		}
	})

	t.Run("Should swallow errors when redis is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer rdb.Close()
		mr.Close()
		assert.NotPanics(t, func() {
			events.NewRedisPublisher(rdb, nil).Publish(context.Background(), events.RecruiterApproved("r-1"))
		})
	})
}

func TestStatusMessage(t *testing.T) {
	cases := map[model.ApplicationStatus]string{
		model.StatusShortlisted: "Congratulations! You have been shortlisted for: QA",
		model.StatusHired:       "Great news! You have been hired for: QA",
		model.StatusRejected:    "We regret to inform you that your application for QA was not selected.",
		model.StatusApplied:     "Your application status for QA has been updated to: APPLIED",
	}
	for status, want := range cases {
		assert.Equal(t, want, events.StatusMessage("QA", status))
	}
}

func TestApplicationCreated(t *testing.T) {
	job := &model.Job{ID: "j-1", OwnerID: "r-1", Title: "Backend"}
	n := events.ApplicationCreated(&model.Application{ID: "a-1", Status: model.StatusApplied}, job, "Asha")
	assert.Equal(t, "r-1", n.RecipientID)
	assert.Equal(t, "New application received for job: Backend from Asha", n.Message)
}
