package service

import (
	"context"
	"fmt"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/pkg/apperror"
)

type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientService interface {
	ListClients(ctx context.Context, identity model.Identity) ([]ClientResponse, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) ListClients(ctx context.Context, identity model.Identity) ([]ClientResponse, error) {
	if !identity.IsApprover() {
		return nil, apperror.Forbidden("only approvers can list clients")
	}

	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}

	res := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		res = append(res, ClientResponse{ID: c.ID.String(), Name: c.Name, Email: c.Email})
	}
	return res, nil
}
