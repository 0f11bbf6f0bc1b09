package http

import (
	"time"

	"calc-service/internal/domain"
)

type CalculationResponse struct {
	ID        int64   `json:"id"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Type      string  `json:"type"`
	Result    float64 `json:"result"`
	UserID    *int64  `json:"user_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Active    bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   string       `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type StatsResponse struct {
	TotalCalculations   int            `json:"total_calculations"`
	OperationsBreakdown map[string]int `json:"operations_breakdown"`
	MostUsedOperation   *string        `json:"most_used_operation"`
	AverageResult       *float64       `json:"average_result"`
}

func calculationToResponse(calc domain.Calculation) CalculationResponse {
	return CalculationResponse{
		ID:        calc.ID,
		A:         calc.A,
		B:         calc.B,
		Type:      string(calc.Type),
		Result:    calc.Result,
		UserID:    calc.UserID,
		CreatedAt: calc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: calc.UpdatedAt.Format(time.RFC3339),
	}
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func statsToResponse(stats domain.CalculationStats) StatsResponse {
	resp := StatsResponse{
		TotalCalculations:   stats.TotalCalculations,
		OperationsBreakdown: make(map[string]int, len(stats.OperationsBreakdown)),
		AverageResult:       stats.AverageResult,
	}
	for op, count := range stats.OperationsBreakdown {
		resp.OperationsBreakdown[string(op)] = count
	}
	if stats.MostUsedOperation != nil {
		v := string(*stats.MostUsedOperation)
		resp.MostUsedOperation = &v
	}
	return resp
}
