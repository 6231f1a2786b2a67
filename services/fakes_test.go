package services

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/Dosada05/league-bot/models"
	"github.com/Dosada05/league-bot/repositories"
	"github.com/Dosada05/league-bot/storage"
)

// Hand-written fakes: tests override the func fields they care about and
// leave the rest on not-found / no-op defaults.

type fakeTeamRepo struct {
	CreateFunc         func(ctx context.Context, team *models.Team) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.Team, error)
	GetByNameFunc      func(ctx context.Context, name string) (*models.Team, error)
	GetByRoleIDFunc    func(ctx context.Context, roleID string) (*models.Team, error)
	GetByManagerIDFunc func(ctx context.Context, exec repositories.SQLExecutor, managerID string) (*models.Team, error)
	ListByRoleIDsFunc  func(ctx context.Context, roleIDs []string) ([]*models.Team, error)
	ListFunc           func(ctx context.Context) ([]*models.Team, error)
	AssignManagerFunc  func(ctx context.Context, exec repositories.SQLExecutor, teamID int, managerID string) error
	ClearManagerFunc   func(ctx context.Context, exec repositories.SQLExecutor, teamID int) error
	UpdateCrestKeyFunc func(ctx context.Context, teamID int, crestKey *string) error
	DeleteFunc         func(ctx context.Context, exec repositories.SQLExecutor, teamID int) error
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, team)
	}
	team.ID = 1
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, name)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) GetByRoleID(ctx context.Context, roleID string) (*models.Team, error) {
	if f.GetByRoleIDFunc != nil {
		return f.GetByRoleIDFunc(ctx, roleID)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) GetByManagerID(ctx context.Context, exec repositories.SQLExecutor, managerID string) (*models.Team, error) {
	if f.GetByManagerIDFunc != nil {
		return f.GetByManagerIDFunc(ctx, exec, managerID)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByRoleIDs(ctx context.Context, roleIDs []string) ([]*models.Team, error) {
	if f.ListByRoleIDsFunc != nil {
		return f.ListByRoleIDsFunc(ctx, roleIDs)
	}
	return []*models.Team{}, nil
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return []*models.Team{}, nil
}

func (f *fakeTeamRepo) AssignManager(ctx context.Context, exec repositories.SQLExecutor, teamID int, managerID string) error {
	if f.AssignManagerFunc != nil {
		return f.AssignManagerFunc(ctx, exec, teamID, managerID)
	}
	return nil
}

func (f *fakeTeamRepo) ClearManager(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	if f.ClearManagerFunc != nil {
		return f.ClearManagerFunc(ctx, exec, teamID)
	}
	return nil
}

func (f *fakeTeamRepo) UpdateCrestKey(ctx context.Context, teamID int, crestKey *string) error {
	if f.UpdateCrestKeyFunc != nil {
		return f.UpdateCrestKeyFunc(ctx, teamID, crestKey)
	}
	return nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, exec, teamID)
	}
	return nil
}

type fakePlayerRepo struct {
	UpsertFunc            func(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error
	GetByUserIDFunc       func(ctx context.Context, userID string) (*models.Player, error)
	IncrementCountersFunc func(ctx context.Context, exec repositories.SQLExecutor, userID string, goals, assists, mentions, motm int) error
}

func (f *fakePlayerRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, exec, player)
	}
	player.ID = 1
	return nil
}

func (f *fakePlayerRepo) GetByUserID(ctx context.Context, userID string) (*models.Player, error) {
	if f.GetByUserIDFunc != nil {
		return f.GetByUserIDFunc(ctx, userID)
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) IncrementCounters(ctx context.Context, exec repositories.SQLExecutor, userID string, goals, assists, mentions, motm int) error {
	if f.IncrementCountersFunc != nil {
		return f.IncrementCountersFunc(ctx, exec, userID, goals, assists, mentions, motm)
	}
	return nil
}

type fakeMembershipRepo struct {
	CreateFunc         func(ctx context.Context, exec repositories.SQLExecutor, membership *models.Membership) error
	GetFunc            func(ctx context.Context, playerID, teamID int, role models.MembershipRole) (*models.Membership, error)
	DeleteFunc         func(ctx context.Context, exec repositories.SQLExecutor, playerID, teamID int, role models.MembershipRole) error
	DeleteByTeamIDFunc func(ctx context.Context, exec repositories.SQLExecutor, teamID int) error
	ListByTeamIDFunc   func(ctx context.Context, teamID int) ([]*models.Membership, error)
}

func (f *fakeMembershipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, membership *models.Membership) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, membership)
	}
	membership.ID = 1
	return nil
}

func (f *fakeMembershipRepo) Get(ctx context.Context, playerID, teamID int, role models.MembershipRole) (*models.Membership, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, playerID, teamID, role)
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, playerID, teamID int, role models.MembershipRole) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, exec, playerID, teamID, role)
	}
	return nil
}

func (f *fakeMembershipRepo) DeleteByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	if f.DeleteByTeamIDFunc != nil {
		return f.DeleteByTeamIDFunc(ctx, exec, teamID)
	}
	return nil
}

func (f *fakeMembershipRepo) ListByTeamID(ctx context.Context, teamID int) ([]*models.Membership, error) {
	if f.ListByTeamIDFunc != nil {
		return f.ListByTeamIDFunc(ctx, teamID)
	}
	return []*models.Membership{}, nil
}

type fakeMatchRepo struct {
	CreateFunc               func(ctx context.Context, match *models.Match) error
	GetByIDFunc              func(ctx context.Context, id int) (*models.Match, error)
	UpdateFunc               func(ctx context.Context, match *models.Match) error
	UpdateKickoffFunc        func(ctx context.Context, id int, kickoffAt time.Time) error
	CancelFunc               func(ctx context.Context, id int, reason string) error
	ListUpcomingFunc         func(ctx context.Context, after time.Time) ([]*models.Match, error)
	CountScheduledByTeamFunc func(ctx context.Context, teamID int) (int, error)
}

func (f *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, match)
	}
	match.ID = 1
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) Update(ctx context.Context, match *models.Match) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, match)
	}
	return nil
}

func (f *fakeMatchRepo) UpdateKickoff(ctx context.Context, id int, kickoffAt time.Time) error {
	if f.UpdateKickoffFunc != nil {
		return f.UpdateKickoffFunc(ctx, id, kickoffAt)
	}
	return nil
}

func (f *fakeMatchRepo) Cancel(ctx context.Context, id int, reason string) error {
	if f.CancelFunc != nil {
		return f.CancelFunc(ctx, id, reason)
	}
	return nil
}

func (f *fakeMatchRepo) ListUpcoming(ctx context.Context, after time.Time) ([]*models.Match, error) {
	if f.ListUpcomingFunc != nil {
		return f.ListUpcomingFunc(ctx, after)
	}
	return []*models.Match{}, nil
}

func (f *fakeMatchRepo) CountScheduledByTeam(ctx context.Context, teamID int) (int, error) {
	if f.CountScheduledByTeamFunc != nil {
		return f.CountScheduledByTeamFunc(ctx, teamID)
	}
	return 0, nil
}

type fakeOfferRepo struct {
	CreateFunc             func(ctx context.Context, offer *models.ContractOffer) error
	GetByIDFunc            func(ctx context.Context, id int) (*models.ContractOffer, error)
	GetByMessageIDFunc     func(ctx context.Context, messageID string) (*models.ContractOffer, error)
	TakeByIDFunc           func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.ContractOffer, error)
	DeleteExpiredFunc      func(ctx context.Context, before time.Time) (int64, error)
	CountPendingByTeamFunc func(ctx context.Context, teamID int) (int, error)
}

func (f *fakeOfferRepo) Create(ctx context.Context, offer *models.ContractOffer) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, offer)
	}
	offer.ID = 1
	return nil
}

func (f *fakeOfferRepo) GetByID(ctx context.Context, id int) (*models.ContractOffer, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrOfferNotFound
}

func (f *fakeOfferRepo) GetByMessageID(ctx context.Context, messageID string) (*models.ContractOffer, error) {
	if f.GetByMessageIDFunc != nil {
		return f.GetByMessageIDFunc(ctx, messageID)
	}
	return nil, repositories.ErrOfferNotFound
}

func (f *fakeOfferRepo) TakeByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.ContractOffer, error) {
	if f.TakeByIDFunc != nil {
		return f.TakeByIDFunc(ctx, exec, id)
	}
	return nil, repositories.ErrOfferNotFound
}

func (f *fakeOfferRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if f.DeleteExpiredFunc != nil {
		return f.DeleteExpiredFunc(ctx, before)
	}
	return 0, nil
}

func (f *fakeOfferRepo) CountPendingByTeam(ctx context.Context, teamID int) (int, error) {
	if f.CountPendingByTeamFunc != nil {
		return f.CountPendingByTeamFunc(ctx, teamID)
	}
	return 0, nil
}

// fakeRefereeRepo keeps referees in memory.
type fakeRefereeRepo struct {
	referees map[string]*models.Referee
}

func newFakeRefereeRepo(userIDs ...string) *fakeRefereeRepo {
	repo := &fakeRefereeRepo{referees: make(map[string]*models.Referee)}
	for _, id := range userIDs {
		repo.referees[id] = &models.Referee{UserID: id}
	}
	return repo
}

func (f *fakeRefereeRepo) Add(ctx context.Context, referee *models.Referee) error {
	if _, ok := f.referees[referee.UserID]; ok {
		return repositories.ErrRefereeConflict
	}
	f.referees[referee.UserID] = referee
	return nil
}

func (f *fakeRefereeRepo) Get(ctx context.Context, userID string) (*models.Referee, error) {
	referee, ok := f.referees[userID]
	if !ok {
		return nil, repositories.ErrRefereeNotFound
	}
	return referee, nil
}

func (f *fakeRefereeRepo) Delete(ctx context.Context, userID string) error {
	if _, ok := f.referees[userID]; !ok {
		return repositories.ErrRefereeNotFound
	}
	delete(f.referees, userID)
	return nil
}

func (f *fakeRefereeRepo) List(ctx context.Context) ([]*models.Referee, error) {
	ids := make([]string, 0, len(f.referees))
	for id := range f.referees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*models.Referee, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.referees[id])
	}
	return out, nil
}

// fakeSettingRepo keeps settings in memory.
type fakeSettingRepo struct {
	values map[string]string
}

func newFakeSettingRepo(pairs ...string) *fakeSettingRepo {
	repo := &fakeSettingRepo{values: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		repo.values[pairs[i]] = pairs[i+1]
	}
	return repo
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	value, ok := f.values[key]
	if !ok {
		return nil, repositories.ErrSettingNotFound
	}
	return &models.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, setting *models.Setting) error {
	f.values[setting.Key] = setting.Value
	return nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, key string) error {
	if _, ok := f.values[key]; !ok {
		return repositories.ErrSettingNotFound
	}
	delete(f.values, key)
	return nil
}

// fakeTxManager runs the unit without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
