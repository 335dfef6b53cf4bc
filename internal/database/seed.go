package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedContractsPerClient      = 3
	seedInstallmentsPerContract = 12
)

type seedAccount struct {
	Name     string
	Email    string
	Password string
}

var (
	seedApprover = seedAccount{Name: "Approver", Email: "approver.demo@antecipa.dev", Password: "123456"}
	seedClients  = []seedAccount{
		{Name: "Ana Sousa", Email: "ana.sousa@antecipa.dev", Password: "as123456"},
		{Name: "Joao Ribeiro", Email: "joao.ribeiro@antecipa.dev", Password: "jr123456"},
		{Name: "Regina Falange", Email: "regina.falange@antecipa.dev", Password: "rf123456"},
	}
	seedInstallmentAmount = decimal.NewFromInt(1600)
)

// Seeder provisions demo accounts and contracts. Running it twice is a no-op.
type Seeder struct {
	txm       repository.TransactionManager
	users     repository.UserRepository
	clients   repository.ClientRepository
	contracts repository.ContractRepository
	log       *logrus.Logger
}

func NewSeeder(txm repository.TransactionManager, users repository.UserRepository, clients repository.ClientRepository, contracts repository.ContractRepository, log *logrus.Logger) *Seeder {
	return &Seeder{txm: txm, users: users, clients: clients, contracts: contracts, log: log}
}

func (s *Seeder) Seed(ctx context.Context, now time.Time) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureUser(txCtx, seedApprover, model.RoleApprover, nil); err != nil {
			return err
		}
		for _, acc := range seedClients {
			client, err := s.ensureClient(txCtx, acc)
			if err != nil {
				return err
			}
			if err := s.ensureUser(txCtx, acc, model.RoleClient, client); err != nil {
				return err
			}
			if err := s.ensureContracts(txCtx, client, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Seeder) ensureUser(ctx context.Context, acc seedAccount, role model.Role, client *model.Client) error {
	if _, err := s.users.GetByEmail(ctx, acc.Email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup user %s: %w", acc.Email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Email: acc.Email, Password: string(hash), Role: role}
	if client != nil {
		user.ClientID = &client.ID
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", acc.Email, err)
	}
	s.log.WithFields(logrus.Fields{"email": acc.Email, "role": role}).Info("seeded user")
	return nil
}

func (s *Seeder) ensureClient(ctx context.Context, acc seedAccount) (*model.Client, error) {
	client, err := s.clients.GetByEmail(ctx, acc.Email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup client %s: %w", acc.Email, err)
	}
	client = &model.Client{Name: acc.Name, Email: acc.Email}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client %s: %w", acc.Email, err)
	}
	return client, nil
}

func (s *Seeder) ensureContracts(ctx context.Context, client *model.Client, now time.Time) error {
	existing, err := s.contracts.CountByClient(ctx, client.ID)
	if err != nil {
		return fmt.Errorf("count contracts: %w", err)
	}
	initials := initialsOf(client.Name)
	for seq := int(existing) + 1; seq <= seedContractsPerClient; seq++ {
		contract := DemoContract(client, fmt.Sprintf("%s_%s_CONTRACT_%d", initials, client.ID.String()[:8], seq), now)
		if err := s.contracts.Create(ctx, &contract); err != nil {
			return fmt.Errorf("create contract %s: %w", contract.Code, err)
		}
	}
	return nil
}

// DemoContract builds a 12-installment contract: #1 already paid, #2 due in 20 days (too close to
// advance), #3 due in 45 days, the rest monthly on day 10.
func DemoContract(client *model.Client, code string, now time.Time) model.Contract {
	installments := make([]model.Installment, 0, seedInstallmentsPerContract)
	var latest time.Time
	for n := 1; n <= seedInstallmentsPerContract; n++ {
		due := time.Date(now.Year(), now.Month(), 10, 0, 0, 0, 0, time.UTC).AddDate(0, n-1, 0)
		status := model.InstallmentDue
		switch n {
		case 1:
			due = now.AddDate(0, 0, -10)
			status = model.InstallmentPaid
		case 2:
			due = now.AddDate(0, 0, 20)
		case 3:
			due = now.AddDate(0, 0, 45)
		}
		if due.After(latest) {
			latest = due
		}
		installments = append(installments, model.Installment{
			Number:  n,
			Amount:  seedInstallmentAmount,
			DueDate: due,
			Status:  status,
		})
	}
	return model.Contract{
		Code:             code,
		ClientID:         client.ID,
		Status:           model.ContractPending,
		InstallmentCount: len(installments),
		LatestDueDate:    latest,
		Installments:     installments,
	}
}

func initialsOf(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
	}
	return b.String()
}
