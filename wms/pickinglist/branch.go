package pickinglist

import (
	"context"

	"metalflow-app/repositories"
	"metalflow-app/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type BranchResolver struct {
	DB *gorm.DB
}

func NewBranchResolver(DB *gorm.DB) *BranchResolver {
	return &BranchResolver{DB: DB}
}

// Resolve menentukan satu branch untuk user: penugasan aktif, lalu branch default,
// lalu satu-satunya keanggotaan. Selain itu ErrBranchAmbiguous.
func (r *BranchResolver) Resolve(ctx context.Context, userID string) (uint, error) {
	repo := repositories.NewBranchRepository(r.DB.WithContext(ctx))
	log := utils.LoggerFromContext(ctx).WithField("user_id", userID)

	assigned, err := repo.ActiveAssignmentBranch(userID)
	if err != nil {
		return 0, errors.Wrap(err, "load active work assignment")
	}
	if assigned != nil {
		log.WithField("branch_id", *assigned).Debug("branch resolved from active assignment")
		return *assigned, nil
	}

	memberships, err := repo.Memberships(userID)
	if err != nil {
		return 0, errors.Wrap(err, "load branch memberships")
	}

	for _, m := range memberships {
		if m.IsDefault {
			log.WithField("branch_id", m.BranchID).Debug("branch resolved from default membership")
			return m.BranchID, nil
		}
	}

	distinct := make(map[uint]bool, len(memberships))
	for _, m := range memberships {
		distinct[m.BranchID] = true
	}
	if len(distinct) == 1 {
		branchID := memberships[0].BranchID
		log.WithField("branch_id", branchID).Debug("branch resolved from single membership")
		return branchID, nil
	}

	log.WithField("memberships", len(distinct)).Warn("cannot resolve branch")
	return 0, ErrBranchAmbiguous
}
