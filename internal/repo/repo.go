package repo

import (
	"github.com/sweeptrade/backend/internal/pg"
	investmentrepo "github.com/sweeptrade/backend/internal/repo/investment-repo"
	transactionrepo "github.com/sweeptrade/backend/internal/repo/transaction-repo"
	userrepo "github.com/sweeptrade/backend/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo        *userrepo.Repository
	InvestmentRepo  *investmentrepo.Repository
	TransactionRepo *transactionrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		InvestmentRepo:  investmentrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
	}
}
