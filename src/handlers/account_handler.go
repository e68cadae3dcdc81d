package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/only1thor/autobank/src/bank"
)

func ListAccounts(bankClient bank.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := bankClient.ListAccounts(r.Context())
		if err != nil {
			log.Printf("ERROR: Failed to fetch accounts: %v", err)
			writeError(w, http.StatusBadGateway, "failed to fetch accounts")
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func GetAccount(bankClient bank.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountKey := chi.URLParam(r, "account_key")
		accounts, err := bankClient.ListAccounts(r.Context())
		if err != nil {
			log.Printf("ERROR: Failed to fetch accounts: %v", err)
			writeError(w, http.StatusBadGateway, "failed to fetch accounts")
			return
		}
		account := accounts.FindAccountByKey(accountKey)
		if account == nil {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func ListAccountTransactions(bankClient bank.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountKey := chi.URLParam(r, "account_key")
		transactions, err := bankClient.ListTransactions(r.Context(), accountKey)
		if err != nil {
			log.Printf("ERROR: Failed to fetch transactions for account %s: %v", accountKey, err)
			writeError(w, http.StatusBadGateway, "failed to fetch transactions")
			return
		}
		writeJSON(w, http.StatusOK, transactions)
	}
}
