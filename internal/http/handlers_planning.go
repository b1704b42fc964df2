package http

import (
	"net/http"

	"financas/internal/services"
	"financas/internal/session"
)

func goalInput(p *RequestBodyParser) services.GoalInput {
	return services.GoalInput{
		Name:     p.Get("name"),
		Target:   p.First("target_amount", "target"),
		Current:  p.First("current_amount", "current"),
		Deadline: p.Get("deadline"),
	}
}

// Budgets

// handleListBudgets lists budgets of ?month=YYYY-MM, or of every month.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	budgets, err := s.svc.Planning.ListBudgets(ctx, sess.UserID, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(nonNil(budgets)).Write(w)
}

// handleUpsertBudget sets the limit of the category's budget for a month.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
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
	categoryID, err := p.Int64("category_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	b, err := s.svc.Planning.UpsertBudget(ctx, sess.UserID, services.BudgetInput{
		CategoryID: categoryID,
		Month:      p.Get("month"),
		Limit:      p.First("limit_amount", "limit"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(b).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.Planning.DeleteBudget(ctx, sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Goals

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	goals, err := s.svc.Planning.ListGoals(ctx, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(nonNil(goals)).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
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

	g, err := s.svc.Planning.CreateGoal(ctx, sess.UserID, goalInput(p))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(g).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
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

	g, err := s.svc.Planning.UpdateGoal(ctx, sess.UserID, id, goalInput(p))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(g).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.Planning.DeleteGoal(ctx, sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
