package server

import (
	"fmt"
	"net/http"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
)

// handleAccounts handles GET /api/accounts (list) and POST /api/accounts (create).
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.LedgerService.ListAccounts(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, accounts)

	case http.MethodPost:
		var account models.Account
		if !DecodeJSON(w, r, &account) {
			return
		}
		account.UserID = userID
		if err := s.app.LedgerService.CreateAccount(r.Context(), &account); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeAccounts handles /api/accounts/{id} (DELETE) and /api/accounts/{id}/balance (GET).
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())
	id := PathParam(r, "/api/accounts/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	if r.URL.Path == "/api/accounts/"+id+"/balance" {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		balance, err := s.accountBalance(r, userID, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"account_id": id,
			"balance":    balance,
		})
		return
	}

	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if err := s.app.LedgerService.DeleteAccount(r.Context(), userID, id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// accountBalance picks the derivation for an account's balance: investment
// accounts are valued from their holdings, cash accounts from the ledger.
func (s *Server) accountBalance(r *http.Request, userID, id string) (float64, error) {
	accounts, err := s.app.LedgerService.ListAccounts(r.Context(), userID)
	if err != nil {
		return 0, err
	}
	for _, account := range accounts {
		if account.ID != id {
			continue
		}
		if account.Type == models.AccountInvestment {
			return s.app.PortfolioService.AccountValue(r.Context(), userID, id)
		}
		return s.app.LedgerService.CashBalance(r.Context(), userID, id)
	}
	return 0, fmt.Errorf("account not found: %s", id)
}

// handleDebts handles GET /api/debts and POST /api/debts.
func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		debts, err := s.app.LedgerService.ListDebts(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, debts)

	case http.MethodPost:
		var debt models.Debt
		if !DecodeJSON(w, r, &debt) {
			return
		}
		debt.UserID = userID
		if err := s.app.LedgerService.CreateDebt(r.Context(), &debt); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, debt)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeDebts handles DELETE /api/debts/{id}.
func (s *Server) routeDebts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID := common.ResolveUserID(r.Context())
	id := PathParam(r, "/api/debts/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Debt ID is required")
		return
	}
	if err := s.app.LedgerService.DeleteDebt(r.Context(), userID, id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleBills handles GET /api/bills and POST /api/bills.
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		bills, err := s.app.LedgerService.ListBills(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, bills)

	case http.MethodPost:
		var bill models.Bill
		if !DecodeJSON(w, r, &bill) {
			return
		}
		bill.UserID = userID
		if err := s.app.LedgerService.CreateBill(r.Context(), &bill); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, bill)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeBills handles DELETE /api/bills/{id}.
func (s *Server) routeBills(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID := common.ResolveUserID(r.Context())
	id := PathParam(r, "/api/bills/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Bill ID is required")
		return
	}
	if err := s.app.LedgerService.DeleteBill(r.Context(), userID, id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleTransactions handles GET /api/transactions and POST /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.LedgerService.ListTransactions(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, txs)

	case http.MethodPost:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		tx.UserID = userID
		if err := s.app.LedgerService.CreateTransaction(r.Context(), &tx); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, tx)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeTransactions handles DELETE /api/transactions/{id}.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID := common.ResolveUserID(r.Context())
	id := PathParam(r, "/api/transactions/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}
	if err := s.app.LedgerService.DeleteTransaction(r.Context(), userID, id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleTransactionImport handles POST /api/transactions/import with a CSV body.
func (s *Server) handleTransactionImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	result, err := s.app.LedgerService.ImportCSV(r.Context(), userID, r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
