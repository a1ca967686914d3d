package application

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

// ObjectUploader stores a JSON document and returns a short-lived download link.
type ObjectUploader interface {
	UploadJSON(ctx context.Context, objectPath string, v any) (string, error)
}

// UserExport is the document written by Export. Secrets are excluded.
type UserExport struct {
	User          PublicUser     `json:"user"`
	ExportedAt    string         `json:"exported_at"`
	Emotions      []EmotionView  `json:"emotions"`
	FocusSessions []FocusView    `json:"focus_sessions"`
	Todos         []TodoView     `json:"todos"`
	Feedbacks     []FeedbackView `json:"feedbacks"`
}

type UserService struct {
	Emotions  repository.EmotionRepository
	Sessions  repository.FocusSessionRepository
	Todos     repository.TodoRepository
	Feedbacks repository.FeedbackRepository
	Storage   ObjectUploader // optional
	Logger    *logrus.Logger
	now       func() time.Time
}

func NewUserService(emotions repository.EmotionRepository, sessions repository.FocusSessionRepository,
	todos repository.TodoRepository, feedbacks repository.FeedbackRepository, storage ObjectUploader, logger *logrus.Logger) *UserService {
	return &UserService{
		Emotions:  emotions,
		Sessions:  sessions,
		Todos:     todos,
		Feedbacks: feedbacks,
		Storage:   storage,
		Logger:    logger,
		now:       time.Now,
	}
}

// Export uploads every record the user owns to exports/<user id>/<uuid>.json.
func (s *UserService) Export(ctx context.Context, u *entity.User) (string, error) {
	if s.Storage == nil {
		return "", ErrExportUnavailable
	}
	emotions, err := s.Emotions.List(ctx, u.ID, repository.TimeRange{}, repository.All)
	if err != nil {
		return "", err
	}
	sessions, err := s.Sessions.List(ctx, u.ID, repository.TimeRange{}, repository.All)
	if err != nil {
		return "", err
	}
	todos, err := s.Todos.List(ctx, u.ID, nil, repository.All)
	if err != nil {
		return "", err
	}
	feedbacks, err := s.Feedbacks.ListRecent(ctx, u.ID, 100)
	if err != nil {
		return "", err
	}

	doc := UserExport{
		User:          NewPublicUser(u),
		ExportedAt:    helpers.FormatLocal(s.now(), helpers.UserLocation(u.Timezone)),
		Emotions:      EmotionViews(emotions),
		FocusSessions: FocusViews(sessions),
		Todos:         TodoViews(todos),
		Feedbacks:     FeedbackViews(feedbacks),
	}
	objectPath := path.Join("exports", u.ID, uuid.NewString()+".json")
	url, err := s.Storage.UploadJSON(ctx, objectPath, doc)
	if err != nil {
		helpers.LogError(s.Logger, "user export upload failed", err, logrus.Fields{"user_id": u.ID})
		return "", err
	}
	helpers.LogInfo(s.Logger, "user export written", logrus.Fields{"user_id": u.ID, "object": objectPath})
	return url, nil
}
