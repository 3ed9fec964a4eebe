package service

import (
	"context"
	"errors"

	"mini_one/internal/common"
	"mini_one/internal/domain/model"
	"mini_one/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// ListLimit bounds how many messages List returns.
const ListLimit = 100

type MessageService struct {
	messageRepo repository.MessageRepository
	log         logrus.FieldLogger
}

func NewMessageService(messageRepo repository.MessageRepository, log logrus.FieldLogger) *MessageService {
	return &MessageService{messageRepo: messageRepo, log: log}
}

type CreateMessageRequest struct {
	Text string `json:"text"`
}

type UpdateMessageRequest struct {
	Text string `json:"text"`
}

func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	messages, err := s.messageRepo.ListRecent(ctx, ListLimit)
	if err != nil {
		return nil, common.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) Create(ctx context.Context, authorID string, req CreateMessageRequest) (*model.Message, error) {
	text, err := validateMessageText(req.Text)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{Text: text, Author: model.Author{ID: authorID}}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, common.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

func (s *MessageService) Update(ctx context.Context, authorID, id string, req UpdateMessageRequest) (*model.Message, error) {
	if err := validateMessageID(id); err != nil {
		return nil, err
	}
	text, err := validateMessageText(req.Text)
	if err != nil {
		return nil, err
	}

	msg, err := s.ownedMessage(ctx, authorID, id, "You can only edit your own messages")
	if err != nil {
		return nil, err
	}

	msg.Text = text
	if err := s.messageRepo.UpdateText(ctx, msg); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Message not found")
		}
		return nil, common.Errorf("failed to update message: %w", err)
	}
	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, authorID, id string) error {
	if err := validateMessageID(id); err != nil {
		return err
	}
	if _, err := s.ownedMessage(ctx, authorID, id, "You can only delete your own messages"); err != nil {
		return err
	}

	if err := s.messageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewError(common.ErrNotFound, "Message not found")
		}
		return common.Errorf("failed to delete message: %w", err)
	}
	s.log.WithFields(logrus.Fields{"message_id": id, "user_id": authorID}).Debug("message deleted")
	return nil
}

// ownedMessage loads the message and only then checks ownership, so an
// unknown id is always NotFound no matter who asks.
func (s *MessageService) ownedMessage(ctx context.Context, userID, id, forbidden string) (*model.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Message not found")
		}
		return nil, common.Errorf("failed to find message: %w", err)
	}
	if !msg.OwnedBy(userID) {
		return nil, common.NewError(common.ErrForbidden, forbidden)
	}
	return msg, nil
}
