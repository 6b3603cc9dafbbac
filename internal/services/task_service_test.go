package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	taskRepo repository.TaskRepository
	service  *TaskService
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.ChecklistItem{},
		&models.TaskAttachment{},
	)
	suite.Require().NoError(err)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.service = NewTaskService(suite.taskRepo)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{
		Name:       name,
		InviteCode: name + "-CODE",
	}
	suite.db.Create(org)
	return org
}

func (suite *TaskServiceTestSuite) createTestUser(email string, orgID uint64, role models.OrganizationRole) *models.User {
	user := &models.User{
		Name:             email,
		Email:            email,
		PasswordHash:     "hashedpassword",
		Role:             models.GlobalRoleUser,
		OrganizationID:   &orgID,
		OrganizationRole: &role,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskServiceTestSuite) createTestTask(title string, orgID, creatorID uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:          title,
		OrganizationID: orgID,
		CreatedByID:    creatorID,
		Status:         status,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskServiceTestSuite) assign(taskID uint64, userIDs ...uint64) {
	suite.Require().NoError(suite.taskRepo.ReplaceAssignees(taskID, userIDs))
}

func (suite *TaskServiceTestSuite) userScope(user *models.User) scope.Scope {
	return scope.Resolve(scope.FromUser(user))
}

func (suite *TaskServiceTestSuite) TestCreateTask_Success() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)

	task, err := suite.service.CreateTask(admin, CreateTaskInput{
		Title:       "Ship release",
		Description: "Cut and publish",
		Priority:    models.TaskPriorityHigh,
		AssignedTo:  []AssigneeRef{{UserID: member.ID}},
		Checklist: []ChecklistItemInput{
			{Text: "tag", Completed: true},
			{Text: "publish"},
		},
		Attachments: []string{"https://files.test/notes.pdf"},
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Ship release", task.Title)
	assert.Equal(suite.T(), models.TaskPriorityHigh, task.Priority)
	assert.Equal(suite.T(), org.ID, task.OrganizationID)
	assert.Equal(suite.T(), admin.ID, task.CreatedByID)
	assert.Len(suite.T(), task.Assignments, 1)
	assert.Len(suite.T(), task.Checklist, 2)
	assert.Len(suite.T(), task.Attachments, 1)

	// Creation stores the checklist verbatim; progress and status derivation
	// belongs to the lifecycle entry points only.
	assert.Equal(suite.T(), 0, task.Progress)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
}

func (suite *TaskServiceTestSuite) TestCreateTask_TitleRequired() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)

	_, err := suite.service.CreateTask(admin, CreateTaskInput{Title: "   "})
	assert.ErrorIs(suite.T(), err, ErrTitleRequired)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeListRequired() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)

	_, err := suite.service.CreateTask(admin, CreateTaskInput{Title: "Ship release"})
	assert.ErrorIs(suite.T(), err, ErrAssigneesRequired)

	// An explicit empty list is a valid unassigned task.
	task, err := suite.service.CreateTask(admin, CreateTaskInput{
		Title:      "Ship release",
		AssignedTo: []AssigneeRef{},
	})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), task.Assignments)
}

func (suite *TaskServiceTestSuite) TestCreateTask_CrossOrganizationAssignment() {
	org := suite.createTestOrganization("Acme")
	other := suite.createTestOrganization("Globex")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	outsider := suite.createTestUser("member@globex.test", other.ID, models.OrgRoleMember)

	_, err := suite.service.CreateTask(admin, CreateTaskInput{
		Title:      "Ship release",
		AssignedTo: []AssigneeRef{{UserID: outsider.ID, OrganizationID: org.ID}},
	})
	assert.ErrorIs(suite.T(), err, ErrCrossOrganizationAssignment)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeOrganizationEchoIgnored() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)

	// A wrong organization echo on a genuine member is harmless: membership
	// is re-derived from the store.
	task, err := suite.service.CreateTask(admin, CreateTaskInput{
		Title:      "Ship release",
		AssignedTo: []AssigneeRef{{UserID: member.ID, OrganizationID: 9999}},
	})
	suite.Require().NoError(err)
	assert.Len(suite.T(), task.Assignments, 1)
	assert.Equal(suite.T(), member.ID, task.Assignments[0].UserID)
}

func (suite *TaskServiceTestSuite) TestReplaceChecklist_DerivesProgressAndStatus() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	updated, err := suite.service.ReplaceChecklist(admin, task.ID, []ChecklistItemInput{
		{Text: "tag", Completed: true},
		{Text: "publish"},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 50, updated.Progress)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)

	updated, err = suite.service.ReplaceChecklist(admin, task.ID, []ChecklistItemInput{
		{Text: "tag", Completed: true},
		{Text: "publish", Completed: true},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 100, updated.Progress)
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)
}

func (suite *TaskServiceTestSuite) TestReplaceChecklist_EmptyListResetsToPending() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusCompleted)

	updated, err := suite.service.ReplaceChecklist(admin, task.ID, nil)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, updated.Progress)
	assert.Equal(suite.T(), models.TaskStatusPending, updated.Status)
	assert.Empty(suite.T(), updated.Checklist)
}

func (suite *TaskServiceTestSuite) TestReplaceChecklist_Idempotent() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	items := []ChecklistItemInput{
		{Text: "one", Completed: true},
		{Text: "two", Completed: true},
		{Text: "three"},
	}

	first, err := suite.service.ReplaceChecklist(admin, task.ID, items)
	suite.Require().NoError(err)
	second, err := suite.service.ReplaceChecklist(admin, task.ID, items)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), first.Progress, second.Progress)
	assert.Equal(suite.T(), first.Status, second.Status)
	assert.Equal(suite.T(), 67, second.Progress)
	assert.Len(suite.T(), second.Checklist, 3)
}

func (suite *TaskServiceTestSuite) TestReplaceChecklist_ForbiddenForUnassignedMember() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	_, err := suite.service.ReplaceChecklist(member, task.ID, []ChecklistItemInput{{Text: "tag"}})
	assert.ErrorIs(suite.T(), err, ErrTaskForbidden)
}

func (suite *TaskServiceTestSuite) TestReplaceChecklist_AllowedForAssignedMember() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)
	suite.assign(task.ID, member.ID)

	updated, err := suite.service.ReplaceChecklist(member, task.ID, []ChecklistItemInput{
		{Text: "tag", Completed: true},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 100, updated.Progress)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_CompletedCascadesToChecklist() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusInProgress)
	suite.Require().NoError(suite.taskRepo.ReplaceChecklist(task.ID, []models.ChecklistItem{
		{TaskID: task.ID, Position: 0, Text: "tag", Completed: true},
		{TaskID: task.ID, Position: 1, Text: "publish"},
	}))

	updated, err := suite.service.UpdateStatus(admin, task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)
	assert.Equal(suite.T(), 100, updated.Progress)
	for _, item := range updated.Checklist {
		assert.True(suite.T(), item.Completed)
	}
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_NonCompletedHasNoSideEffects() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)
	suite.Require().NoError(suite.taskRepo.ReplaceChecklist(task.ID, []models.ChecklistItem{
		{TaskID: task.ID, Position: 0, Text: "tag"},
	}))

	updated, err := suite.service.UpdateStatus(admin, task.ID, models.TaskStatusInProgress)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
	assert.Equal(suite.T(), 0, updated.Progress)
	assert.False(suite.T(), updated.Checklist[0].Completed)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_EmptyStatusKeepsCurrent() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusInProgress)

	updated, err := suite.service.UpdateStatus(admin, task.ID, "")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_RejectsUnknownStatus() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	_, err := suite.service.UpdateStatus(admin, task.ID, "Archived")
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestUpdateStatus_ForbiddenForUnassignedMember() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	_, err := suite.service.UpdateStatus(member, task.ID, models.TaskStatusCompleted)
	assert.ErrorIs(suite.T(), err, ErrTaskForbidden)
}

func (suite *TaskServiceTestSuite) TestListTasks_SummaryIgnoresStatusNarrowing() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	suite.createTestTask("a", org.ID, admin.ID, models.TaskStatusPending)
	suite.createTestTask("b", org.ID, admin.ID, models.TaskStatusInProgress)
	suite.createTestTask("c", org.ID, admin.ID, models.TaskStatusCompleted)

	status := models.TaskStatusPending
	tasks, summary, err := suite.service.ListTasks(suite.userScope(admin), &status)
	suite.Require().NoError(err)

	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), int64(3), summary.All)
	assert.Equal(suite.T(), int64(1), summary.Pending)
	assert.Equal(suite.T(), int64(1), summary.InProgress)
	assert.Equal(suite.T(), int64(1), summary.Completed)
}

func (suite *TaskServiceTestSuite) TestListTasks_MemberSeesOnlyOwnAssignments() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	mine := suite.createTestTask("mine", org.ID, admin.ID, models.TaskStatusPending)
	suite.createTestTask("other", org.ID, admin.ID, models.TaskStatusPending)
	suite.assign(mine.ID, member.ID)

	tasks, summary, err := suite.service.ListTasks(suite.userScope(member), nil)
	suite.Require().NoError(err)

	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), mine.ID, tasks[0].ID)
	assert.Equal(suite.T(), int64(1), summary.All)
}

func (suite *TaskServiceTestSuite) TestGetTask_OutOfScopeReportsNotFound() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	_, err := suite.service.GetTask(suite.userScope(member), task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_EmptyFieldsLeftUnchanged() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)
	task.Description = "original"
	suite.db.Save(task)

	updated, err := suite.service.UpdateTask(suite.userScope(admin), admin, task.ID, UpdateTaskInput{
		Description: "revised",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Ship release", updated.Title)
	assert.Equal(suite.T(), "revised", updated.Description)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_RequiresAdminRank() {
	org := suite.createTestOrganization("Acme")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	member := suite.createTestUser("member@acme.test", org.ID, models.OrgRoleMember)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)
	suite.assign(task.ID, member.ID)

	err := suite.service.DeleteTask(suite.userScope(member), member, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskForbidden)

	err = suite.service.DeleteTask(suite.userScope(admin), admin, task.ID)
	suite.Require().NoError(err)

	_, err = suite.service.GetTask(suite.userScope(admin), task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_OutOfScopeReportsNotFound() {
	org := suite.createTestOrganization("Acme")
	other := suite.createTestOrganization("Globex")
	admin := suite.createTestUser("admin@acme.test", org.ID, models.OrgRoleAdmin)
	otherAdmin := suite.createTestUser("admin@globex.test", other.ID, models.OrgRoleAdmin)
	task := suite.createTestTask("Ship release", org.ID, admin.ID, models.TaskStatusPending)

	err := suite.service.DeleteTask(suite.userScope(otherAdmin), otherAdmin, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
