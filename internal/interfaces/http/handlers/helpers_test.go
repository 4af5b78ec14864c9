package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Avleen-2464/EchoQuill/internal/domain/entity"
	"github.com/Avleen-2464/EchoQuill/internal/domain/repository"
	domainErrors "github.com/Avleen-2464/EchoQuill/pkg/errors"
)

func errServiceDown() error {
	return domainErrors.NewServiceUnavailableError("inference", "not running", errors.New("dial refused"))
}

// seedDayMessages stores a tiny user/bot exchange inside the given day's
// UTC window.
func seedDayMessages(t *testing.T, messages repository.MessageRepository, owner, date string) {
	t.Helper()
	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	ctx := context.Background()

	user := entity.ReconstructMessage("m1", owner, "c1", entity.SenderUser, "I walked in the rain", day.Add(10*time.Hour))
	bot := entity.ReconstructMessage("m2", owner, "c1", entity.SenderBot, "Rain walks can be peaceful.", day.Add(10*time.Hour+time.Minute))

	if err := messages.Save(ctx, user); err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
	if err := messages.Save(ctx, bot); err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
}
