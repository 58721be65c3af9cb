package pickinglist

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"metalflow-app/models"
	"metalflow-app/repositories"
	"metalflow-app/utils"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

type PickingListHandler struct {
	DB      *gorm.DB
	Service *Service
}

func NewPickingListHandler(db *gorm.DB, svc *Service) *PickingListHandler {
	return &PickingListHandler{DB: db, Service: svc}
}

type previewInput struct {
	Text string `json:"text" validate:"required"`
}

type commitInput struct {
	Text        string          `json:"text" validate:"required"`
	LineRouting map[string]uint `json:"line_routing" validate:"required,min=1"`
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

func (h *PickingListHandler) Preview(ctx *fiber.Ctx) error {
	var input previewInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid payload"})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	preview, err := h.Service.Preview(requestContext(ctx), input.Text, userIDFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking list parsed",
		"data":    preview,
	})
}

func (h *PickingListHandler) PreviewFile(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "File is required"})
	}

	src, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to open file"})
	}
	defer src.Close()

	doc, err := ParseFile(file.Filename, src)
	if err != nil {
		return respondError(ctx, err)
	}

	preview, err := h.Service.PreviewDocument(requestContext(ctx), doc, userIDFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking list file parsed",
		"data":    preview,
	})
}

func (h *PickingListHandler) Commit(ctx *fiber.Ctx) error {
	var input commitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid payload"})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	routing, err := ParseRouting(input.LineRouting)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	summary, err := h.Service.Commit(requestContext(ctx), input.Text, userIDFrom(ctx), routing)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking list imported",
		"data":    summary,
	})
}

func (h *PickingListHandler) GetAll(ctx *fiber.Ctx) error {
	branchID, err := h.Service.Validator.Resolver.Resolve(requestContext(ctx), userIDFrom(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	var status models.PickingListStatus
	if raw := ctx.Query("status"); raw != "" {
		parsed, ok := models.ParsePickingListStatus(raw)
		if !ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid status " + raw})
		}
		status = parsed
	}

	lists, err := repositories.NewPickingListRepository(h.DB.WithContext(ctx.UserContext())).ListByBranch(branchID, status)
	if err != nil {
		return respondError(ctx, errors.Wrap(err, "list picking lists"))
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking lists retrieved successfully",
		"data":    lists,
	})
}

func (h *PickingListHandler) GetByID(ctx *fiber.Ctx) error {
	list, err := h.findForUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking list retrieved successfully",
		"data":    list,
	})
}

func (h *PickingListHandler) UpdateStatus(ctx *fiber.Ctx) error {
	var input statusInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid payload"})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	next, ok := models.ParsePickingListStatus(input.Status)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid status " + input.Status})
	}

	list, err := h.findForUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if !list.Status.CanTransitionTo(next) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Cannot change status from " + string(list.Status) + " to " + string(next),
		})
	}

	repo := repositories.NewPickingListRepository(h.DB.WithContext(ctx.UserContext()))
	if err := repo.UpdateStatus(list.ID, next); err != nil {
		return respondError(ctx, errors.Wrap(err, "update picking list status"))
	}
	list.Status = next

	utils.LoggerFromContext(requestContext(ctx)).WithFields(logrus.Fields{
		"picking_list_id": list.ID,
		"status":          next,
	}).Info("picking list status updated")

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Picking list status updated",
		"data":    list,
	})
}

func (h *PickingListHandler) findForUser(ctx *fiber.Ctx) (*models.PickingList, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid picking list ID")
	}

	branchID, err := h.Service.Validator.Resolver.Resolve(requestContext(ctx), userIDFrom(ctx))
	if err != nil {
		return nil, err
	}

	list, err := repositories.NewPickingListRepository(h.DB.WithContext(ctx.UserContext())).FindByID(branchID, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Picking list not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find picking list")
	}
	return list, nil
}

// ParseFile memilih parser berdasarkan ekstensi file
func ParseFile(name string, r io.Reader) (*ImportDocument, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ParseWorkbook(r)
	case ".csv":
		return ParseCSV(r)
	case ".txt", "":
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		return Parse(string(content))
	}
	return nil, &MalformedDocumentError{Reason: "unsupported file type " + filepath.Ext(name)}
}

// ParseRouting mengubah key JSON "<line>" menjadi line number
func ParseRouting(raw map[string]uint) (map[int]uint, error) {
	routing := make(map[int]uint, len(raw))
	for key, areaID := range raw {
		line, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, errors.Errorf("invalid line number %q in line_routing", key)
		}
		routing[line] = areaID
	}
	return routing, nil
}

func respondError(ctx *fiber.Ctx, err error) error {
	var (
		validationErr *ValidationError
		routingErr    *RoutingNotAssignedError
		areaErr       *InvalidRoutingAreaError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Picking list validation failed",
			"errors":  validationErr.Errors,
		})
	case errors.As(err, &routingErr), errors.As(err, &areaErr):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrMalformedDocument):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrBranchAmbiguous):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"errors":  []string{err.Error()},
		})
	case errors.As(err, &fiberErr):
		return ctx.Status(fiberErr.Code).JSON(fiber.Map{"success": false, "message": fiberErr.Message})
	}

	utils.LoggerFromContext(requestContext(ctx)).WithError(err).Error("picking list request failed")
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}

func userIDFrom(ctx *fiber.Ctx) string {
	userID, _ := ctx.Locals("userID").(string)
	return userID
}

func requestContext(ctx *fiber.Ctx) context.Context {
	return utils.WithLogger(ctx.UserContext(), utils.LoggerFromContext(ctx.UserContext()).WithFields(logrus.Fields{
		"path":    ctx.Path(),
		"user_id": userIDFrom(ctx),
	}))
}
