package service

import (
	"context"
	"errors"
	"fmt"

	"rideadmin/pricing/internal/state"

	"github.com/google/uuid"
)

var errDraftsDisabled = errors.New("draft store is not configured")

// SaveDraft stores the editor's selection and fields so the form can be
// resumed later. The first save assigns the draft id.
func (s *Service) SaveDraft(ctx context.Context, editor *Editor) (string, error) {
	if s.drafts == nil {
		return "", errDraftsDisabled
	}

	editor.mutex.Lock()
	if editor.draftID == "" {
		editor.draftID = uuid.NewString()
	}
	draft := &state.Draft{
		ID:        editor.draftID,
		Family:    editor.family,
		RuleID:    editor.ruleID,
		Selection: editor.resolver.Selection(),
		Fields:    make(map[string]string, len(editor.fields)),
		UpdatedAt: s.now(),
	}
	for k, v := range editor.fields {
		draft.Fields[k] = v
	}
	editor.mutex.Unlock()

	if err := s.drafts.Save(ctx, draft); err != nil {
		return "", err
	}
	return draft.ID, nil
}

// ResumeDraft reopens a saved draft against the current catalog
func (s *Service) ResumeDraft(ctx context.Context, id string) (*Editor, error) {
	if s.drafts == nil {
		return nil, errDraftsDisabled
	}

	draft, err := s.drafts.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	editor, err := s.NewEditor(draft.Family)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, editor, draft.Selection); err != nil {
		return nil, fmt.Errorf("failed to resume draft %s: %w", id, err)
	}

	editor.draftID = draft.ID
	editor.ruleID = draft.RuleID
	for k, v := range draft.Fields {
		editor.fields[k] = v
	}
	return editor, nil
}

func (s *Service) DiscardDraft(ctx context.Context, id string) error {
	if s.drafts == nil {
		return errDraftsDisabled
	}
	return s.drafts.Delete(ctx, id)
}
