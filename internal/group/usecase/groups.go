package usecase

import (
	"context"

	"tabvault/internal/group"
	"tabvault/internal/model"
)

func (uc *implUseCase) GetGroups(ctx context.Context) ([]model.Group, error) {
	groups, err := uc.store.GetGroups()
	if err != nil {
		uc.l.Errorf(ctx, "uc.GetGroups: %v", err)
		return nil, err
	}
	return groups, nil
}

func (uc *implUseCase) CreateGroup(ctx context.Context, input group.CreateGroupInput) (model.Group, error) {
	g, err := uc.store.CreateGroup(input.Name, input.Description)
	if err != nil {
		uc.l.Warnf(ctx, "uc.CreateGroup %q: %v", input.Name, err)
		return model.Group{}, err
	}
	return g, nil
}

func (uc *implUseCase) SaveGroup(ctx context.Context, input group.SaveGroupInput) (model.Group, error) {
	g, err := uc.store.SaveGroup(input.ID, input.Name, input.Description)
	if err != nil {
		uc.l.Warnf(ctx, "uc.SaveGroup %s: %v", input.ID, err)
		return model.Group{}, err
	}
	return g, nil
}

func (uc *implUseCase) DeleteGroup(ctx context.Context, id string) error {
	if err := uc.store.DeleteGroup(id); err != nil {
		uc.l.Warnf(ctx, "uc.DeleteGroup %s: %v", id, err)
		return err
	}
	return nil
}

func (uc *implUseCase) ReorderGroups(ctx context.Context, order []string) error {
	if err := uc.store.ReorderGroups(order); err != nil {
		uc.l.Warnf(ctx, "uc.ReorderGroups: %v", err)
		return err
	}
	return nil
}

func (uc *implUseCase) GetSettings(ctx context.Context) (model.Settings, error) {
	settings, err := uc.store.GetSettings()
	if err != nil {
		uc.l.Errorf(ctx, "uc.GetSettings: %v", err)
		return model.Settings{}, err
	}
	return settings, nil
}

func (uc *implUseCase) SaveSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	if err := uc.store.SaveSettings(settings); err != nil {
		uc.l.Errorf(ctx, "uc.SaveSettings: %v", err)
		return model.Settings{}, err
	}
	return settings, nil
}
