package service

import (
	"time"

	"stockroom/internal/repository"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	movementRepo repository.StockMovementRepository
}

func NewDashboardService(movementRepo repository.StockMovementRepository) DashboardService {
	return &dashboardService{movementRepo: movementRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.movementRepo.GetDashboardStats()
}
