package bank

import (
	"context"
	"fmt"
	"sync"

	"github.com/only1thor/autobank/src/models"
)

// TransferCall records one transfer attempt made against the mock.
type TransferCall struct {
	Regular    *models.CreateTransferRequest
	CreditCard *models.CreditCardTransferRequest
}

type transferResult struct {
	resp *models.TransferResponse
	err  error
}

// MockClient is an in-memory Client for tests and demo mode. Accounts and
// transactions are settable; transfer results can be queued per call.
type MockClient struct {
	mu              sync.Mutex
	accounts        models.AccountData
	transactions    map[string]*models.TransactionResponse
	txErrors        map[string]error
	accountsErr     error
	transferResults []transferResult
	transferCalls   []TransferCall
	nextPaymentID   int
}

func NewMockClient() *MockClient {
	return &MockClient{
		transactions: make(map[string]*models.TransactionResponse),
		txErrors:     make(map[string]error),
	}
}

func (m *MockClient) SetAccounts(accounts []models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = models.AccountData{Accounts: accounts}
}

func (m *MockClient) SetAccountsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountsErr = err
}

func (m *MockClient) SetTransactions(accountKey string, txs []models.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[accountKey] = &models.TransactionResponse{Transactions: txs}
	delete(m.txErrors, accountKey)
}

func (m *MockClient) SetTransactionsError(accountKey string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txErrors[accountKey] = err
}

// QueueTransferResult makes the next transfer call return the given result.
// With nothing queued, transfers succeed with a generated payment id.
func (m *MockClient) QueueTransferResult(resp *models.TransferResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transferResults = append(m.transferResults, transferResult{resp: resp, err: err})
}

// TransferCalls returns every transfer attempt in order.
func (m *MockClient) TransferCalls() []TransferCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]TransferCall, len(m.transferCalls))
	copy(calls, m.transferCalls)
	return calls
}

func (m *MockClient) ListAccounts(ctx context.Context) (*models.AccountData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accountsErr != nil {
		return nil, m.accountsErr
	}
	data := m.accounts
	return &data, nil
}

func (m *MockClient) ListTransactions(ctx context.Context, accountKey string) (*models.TransactionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.txErrors[accountKey]; ok {
		return nil, err
	}
	resp, ok := m.transactions[accountKey]
	if !ok {
		return nil, &APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "no transactions for account " + accountKey}
	}
	out := *resp
	return &out, nil
}

func (m *MockClient) nextTransferResult() (*models.TransferResponse, error) {
	if len(m.transferResults) > 0 {
		result := m.transferResults[0]
		m.transferResults = m.transferResults[1:]
		return result.resp, result.err
	}
	m.nextPaymentID++
	paymentID := fmt.Sprintf("payment-%d", m.nextPaymentID)
	return &models.TransferResponse{PaymentID: &paymentID}, nil
}

func (m *MockClient) CreateTransfer(ctx context.Context, req *models.CreateTransferRequest) (*models.TransferResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transferCalls = append(m.transferCalls, TransferCall{Regular: req})
	return m.nextTransferResult()
}

func (m *MockClient) CreateCreditCardTransfer(ctx context.Context, req *models.CreditCardTransferRequest) (*models.TransferResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transferCalls = append(m.transferCalls, TransferCall{CreditCard: req})
	return m.nextTransferResult()
}
