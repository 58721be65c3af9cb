package pickinglist

import (
	"context"
	"fmt"
	"strings"

	"metalflow-app/models"
	"metalflow-app/repositories"
	"metalflow-app/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ValidationResult struct {
	IsValid         bool                    `json:"is_valid"`
	Errors          []string                `json:"errors"`
	BranchID        uint                    `json:"branch_id"`
	BranchName      string                  `json:"branch_name"`
	ProductionAreas []models.ProductionArea `json:"production_areas"`
}

func (r *ValidationResult) addf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err mengembalikan *ValidationError jika hasil tidak valid
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

type Validator struct {
	DB       *gorm.DB
	Resolver *BranchResolver
}

func NewValidator(DB *gorm.DB) *Validator {
	return &Validator{DB: DB, Resolver: NewBranchResolver(DB)}
}

// Validate tidak pernah menulis ke database. Error kedua hanya untuk kegagalan storage,
// masalah dokumen dikumpulkan semuanya di ValidationResult.Errors.
func (v *Validator) Validate(ctx context.Context, doc *ImportDocument, userID string) (*ValidationResult, error) {
	result := &ValidationResult{Errors: []string{}}
	db := v.DB.WithContext(ctx)

	if strings.TrimSpace(doc.PickingListNumber) == "" {
		result.addf("PICKING_LIST_NO is required")
	}

	branchID, err := v.Resolver.Resolve(ctx, userID)
	switch {
	case errors.Is(err, ErrBranchAmbiguous):
		result.addf("branch: could not resolve a single active branch for user %s", userID)
	case err != nil:
		return nil, err
	default:
		if err := v.loadBranch(db, branchID, result); err != nil {
			return nil, err
		}
	}

	codes := doc.ItemCodes()
	found, err := repositories.NewItemRepository(db).ActiveIDsByCode(codes)
	if err != nil {
		return nil, errors.Wrap(err, "lookup item codes")
	}
	for _, code := range codes {
		if _, ok := found[code]; !ok {
			result.addf("item code %s not found in item master", code)
		}
	}

	validateLines(doc, result)
	validateNumeric(result, "header", "TOTAL_WEIGHT_LBS", doc.TotalWeightLbs, false)

	result.IsValid = len(result.Errors) == 0
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"picking_list_no": doc.PickingListNumber,
		"user_id":         userID,
		"branch_id":       result.BranchID,
		"errors":          len(result.Errors),
	}).Info("picking list validated")
	return result, nil
}

func (v *Validator) loadBranch(db *gorm.DB, branchID uint, result *ValidationResult) error {
	branch, err := repositories.NewBranchRepository(db).GetByID(branchID)
	if err != nil {
		return errors.Wrapf(err, "load branch %d", branchID)
	}
	areas, err := repositories.NewProductionAreaRepository(db).ListActiveByBranch(branchID)
	if err != nil {
		return errors.Wrapf(err, "load production areas of branch %d", branchID)
	}
	result.BranchID = branch.ID
	result.BranchName = branch.Name
	result.ProductionAreas = areas
	return nil
}

func validateLines(doc *ImportDocument, result *ValidationResult) {
	seen := make(map[int]bool, len(doc.Lines))
	for i, line := range doc.Lines {
		label := lineLabel(i, line)

		if !line.LineNumberValid || line.LineNumber <= 0 {
			result.addf("%s: LINE must be a positive integer", label)
		} else if seen[line.LineNumber] {
			result.addf("%s: duplicate line number", label)
		}
		seen[line.LineNumber] = true

		if strings.TrimSpace(line.ItemCode) == "" {
			result.addf("%s: ITEM_CODE is required", label)
		}

		validateNumeric(result, label, "LINE_WEIGHT_LBS", line.LineWeightLbs, true)
		validateNumeric(result, label, "ORDER_QTY VALUE", line.OrderQty, true)

		switch line.OrderUnit {
		case UnitPCS:
			validateNumeric(result, label, "WIDTH_IN", line.WidthIn, true)
			validateNumeric(result, label, "LENGTH_IN", line.LengthIn, true)
		case UnitLBS:
			validateNumeric(result, label, "WIDTH_IN", line.WidthIn, false)
			validateNumeric(result, label, "LENGTH_IN", line.LengthIn, false)
		default:
			result.addf("%s: ORDER_QTY UNIT must be PCS or LBS", label)
		}

		tags := make(map[string]bool, len(line.ReservedMaterials))
		for j, m := range line.ReservedMaterials {
			tag := strings.TrimSpace(m.TagNumber)
			if tag == "" {
				result.addf("%s: reserved material #%d has no TAG_NUMBER", label, j+1)
				continue
			}
			if tags[tag] {
				result.addf("%s: duplicate TAG_NUMBER %s", label, tag)
			}
			tags[tag] = true
		}
	}
}

// validateNumeric membedakan field yang tidak ada dan field yang tidak bisa di-parse
func validateNumeric(result *ValidationResult, label, field string, value NumericField, required bool) {
	switch {
	case !value.Present:
		if required {
			result.addf("%s: %s is required", label, field)
		}
	case !value.Valid:
		result.addf("%s: %s is not a valid number", label, field)
	}
}

func lineLabel(index int, line *ImportLine) string {
	if line.LineNumberValid {
		return fmt.Sprintf("line %d", line.LineNumber)
	}
	return fmt.Sprintf("line #%d", index+1)
}
