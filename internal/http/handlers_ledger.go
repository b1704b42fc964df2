package http

import (
	"net/http"
	"sync/atomic"

	"financas/internal/services"
	"financas/internal/session"
)

func transactionInput(p *RequestBodyParser) (services.TransactionInput, error) {
	categoryID, err := p.Int64("category_id")
	if err != nil {
		return services.TransactionInput{}, err
	}
	accountID, err := p.Int64("account_id")
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Type:        p.Get("type"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		Description: p.Get("description"),
		CategoryID:  categoryID,
		AccountID:   accountID,
	}, nil
}

func accountInput(p *RequestBodyParser) services.AccountInput {
	return services.AccountInput{
		Name:    p.Get("name"),
		Type:    p.Get("type"),
		Balance: p.Get("balance"),
		Icon:    p.Get("icon"),
	}
}

// Transactions

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := ParseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	txs, err := s.svc.Ledger.ListTransactions(ctx, sess.UserID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(nonNil(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	t, err := s.svc.Ledger.CreateTransaction(ctx, sess.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	atomic.AddInt64(&s.transactionsCreated, 1)
	NewJSONResponse().Status(http.StatusCreated).Body(t).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	t, err := s.svc.Ledger.GetTransaction(ctx, sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(t).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := transactionInput(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	t, err := s.svc.Ledger.UpdateTransaction(ctx, sess.UserID, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(t).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := s.svc.Ledger.DeleteTransaction(ctx, sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Categories

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	cats, err := s.svc.Ledger.ListCategories(ctx, sess.UserID, r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(nonNil(cats)).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	c, err := s.svc.Ledger.CreateCategory(ctx, sess.UserID, p.Get("name"), p.Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(c).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := s.svc.Ledger.DeleteCategory(ctx, sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Accounts

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	accounts, err := s.svc.Ledger.ListAccounts(ctx, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(nonNil(accounts)).Write(w)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	a, err := s.svc.Ledger.CreateAccount(ctx, sess.UserID, accountInput(p))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(a).Write(w)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := parseBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	a, err := s.svc.Ledger.UpdateAccount(ctx, sess.UserID, id, accountInput(p))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(a).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := s.svc.Ledger.DeleteAccount(ctx, sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
