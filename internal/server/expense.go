package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	expensedomain "github.com/smallbiznis/bizbook/internal/expense/domain"
)

func (s *Server) CreateExpense(c *gin.Context) {
	var req expensedomain.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	expense, err := s.expenseSvc.CreateExpense(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": expense})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var req expensedomain.ListExpenseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var err error
	req.StartDate, req.EndDate, err = parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date filter"))
		return
	}

	resp, err := s.expenseSvc.ListExpenses(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Expenses, "page_info": resp.PageInfo})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.expenseSvc.DeleteExpense(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) SetBudget(c *gin.Context) {
	var req expensedomain.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.Category = strings.TrimSpace(c.Param("category"))

	budget, err := s.expenseSvc.SetBudget(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": budget})
}

func (s *Server) GetBudget(c *gin.Context) {
	budget, err := s.expenseSvc.GetBudget(c.Request.Context(), strings.TrimSpace(c.Param("category")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": budget})
}
