package usecase

import (
	"context"

	"tabvault/internal/group"
	"tabvault/internal/model"
)

func (uc *implUseCase) AddTabs(ctx context.Context, groupID string, tabs []group.TabInput) (model.Group, error) {
	capture := make([]model.Tab, 0, len(tabs))
	for _, t := range tabs {
		capture = append(capture, model.Tab{
			Title:      t.Title,
			URL:        t.URL,
			FavIconURL: t.FavIconURL,
		})
	}

	g, err := uc.store.AddTabsToGroup(groupID, capture)
	if err != nil {
		uc.l.Warnf(ctx, "uc.AddTabs to %s: %v", groupID, err)
		return model.Group{}, err
	}
	return g, nil
}

func (uc *implUseCase) RemoveTab(ctx context.Context, groupID, tabID string) error {
	if err := uc.store.RemoveTabFromGroup(groupID, tabID); err != nil {
		uc.l.Warnf(ctx, "uc.RemoveTab %s from %s: %v", tabID, groupID, err)
		return err
	}
	return nil
}

func (uc *implUseCase) ReorderTabs(ctx context.Context, groupID string, order []string) error {
	if err := uc.store.ReorderTabsInGroup(groupID, order); err != nil {
		uc.l.Warnf(ctx, "uc.ReorderTabs in %s: %v", groupID, err)
		return err
	}
	return nil
}

func (uc *implUseCase) MoveTab(ctx context.Context, tabID, fromGroupID, toGroupID string) error {
	if err := uc.store.MoveTabBetweenGroups(tabID, fromGroupID, toGroupID); err != nil {
		uc.l.Warnf(ctx, "uc.MoveTab %s %s->%s: %v", tabID, fromGroupID, toGroupID, err)
		return err
	}
	return nil
}
