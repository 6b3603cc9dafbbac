package dto

import (
	"github.com/clearcove/task-tracker-api/internal/services"
)

// DashboardStatisticsDTO carries the headline totals on the dashboard
type DashboardStatisticsDTO struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

// TaskDistributionDTO is the per-status chart series, keyed without spaces
type TaskDistributionDTO struct {
	Pending    int64 `json:"Pending"`
	InProgress int64 `json:"InProgress"`
	Completed  int64 `json:"Completed"`
	All        int64 `json:"All"`
}

// TaskPriorityLevelsDTO is the per-priority chart series
type TaskPriorityLevelsDTO struct {
	Low    int64 `json:"Low"`
	Medium int64 `json:"Medium"`
	High   int64 `json:"High"`
}

// DashboardChartsDTO groups the chart series
type DashboardChartsDTO struct {
	TaskDistribution   TaskDistributionDTO   `json:"taskDistribution"`
	TaskPriorityLevels TaskPriorityLevelsDTO `json:"taskPriorityLevels"`
}

// DashboardResponse represents the dashboard payload
type DashboardResponse struct {
	Statistics  DashboardStatisticsDTO `json:"statistics"`
	Charts      DashboardChartsDTO     `json:"charts"`
	RecentTasks []TaskSummaryDTO       `json:"recentTasks"`
}

// ToDashboardResponse converts dashboard data to the response payload
func ToDashboardResponse(data services.DashboardData) DashboardResponse {
	return DashboardResponse{
		Statistics: DashboardStatisticsDTO{
			TotalTasks:     data.Statistics.TotalTasks,
			PendingTasks:   data.Statistics.PendingTasks,
			CompletedTasks: data.Statistics.CompletedTasks,
			OverdueTasks:   data.Statistics.OverdueTasks,
		},
		Charts: DashboardChartsDTO{
			TaskDistribution: TaskDistributionDTO{
				Pending:    data.Distribution.Pending,
				InProgress: data.Distribution.InProgress,
				Completed:  data.Distribution.Completed,
				All:        data.Distribution.All,
			},
			TaskPriorityLevels: TaskPriorityLevelsDTO{
				Low:    data.PriorityLevels.Low,
				Medium: data.PriorityLevels.Medium,
				High:   data.PriorityLevels.High,
			},
		},
		RecentTasks: ToTaskSummaryDTOs(data.RecentTasks),
	}
}
