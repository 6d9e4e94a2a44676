package controllers

import (
	"strconv"

	"sirb_backend/backend/models"
	"sirb_backend/backend/services"
	"sirb_backend/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TaxonomyController serves the university -> college -> subject -> chapter
// hierarchy students browse through, plus the admin management surface and
// the per-chapter content reordering endpoints.
type TaxonomyController struct {
	DB      *gorm.DB
	Reorder *services.ReorderService
}

func NewTaxonomyController(db *gorm.DB, reorder *services.ReorderService) *TaxonomyController {
	return &TaxonomyController{DB: db, Reorder: reorder}
}

func (tc *TaxonomyController) GetUniversities(c *fiber.Ctx) error {
	var universities []models.University
	if err := tc.DB.Order("name ASC").Find(&universities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(fiber.Map{"universities": universities})
}

func (tc *TaxonomyController) GetColleges(c *fiber.Ctx) error {
	universityID, err := strconv.Atoi(c.Params("universityId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var colleges []models.College
	if err := tc.DB.Where("university_id = ?", universityID).Order("name ASC").Find(&colleges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(fiber.Map{"colleges": colleges})
}

func (tc *TaxonomyController) GetSubjects(c *fiber.Ctx) error {
	collegeID, err := strconv.Atoi(c.Params("collegeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var subjects []models.Subject
	if err := tc.DB.Where("college_id = ?", collegeID).Order("name ASC").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

func (tc *TaxonomyController) GetChapters(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var chapters []models.Chapter
	if err := tc.DB.Where("subject_id = ?", subjectID).Order("sequence ASC").Find(&chapters).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(fiber.Map{"chapters": chapters})
}

type CreateUniversityInput struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	NameEn  string `json:"name_en"`
	City    string `json:"city"`
	LogoURL string `json:"logo_url" validate:"omitempty,url"`
}

func (tc *TaxonomyController) CreateUniversity(c *fiber.Ctx) error {
	var input CreateUniversityInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	university := models.University{
		Name:    input.Name,
		NameEn:  input.NameEn,
		City:    input.City,
		LogoURL: input.LogoURL,
	}
	if err := tc.DB.Create(&university).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create university",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "University created",
		"university": university,
	})
}

type CreateCollegeInput struct {
	UniversityID uint   `json:"university_id" validate:"required"`
	Name         string `json:"name" validate:"required,min=2,max=200"`
}

func (tc *TaxonomyController) CreateCollege(c *fiber.Ctx) error {
	var input CreateCollegeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var count int64
	tc.DB.Model(&models.University{}).Where("id = ?", input.UniversityID).Count(&count)
	if count == 0 {
		return domainError(c, services.ErrNotFound)
	}

	college := models.College{UniversityID: input.UniversityID, Name: input.Name}
	if err := tc.DB.Create(&college).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create college",
		})
	}

	return c.JSON(fiber.Map{
		"message": "College created",
		"college": college,
	})
}

type CreateSubjectInput struct {
	CollegeID uint   `json:"college_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=2,max=200"`
	Code      string `json:"code" validate:"max=20"`
}

func (tc *TaxonomyController) CreateSubject(c *fiber.Ctx) error {
	var input CreateSubjectInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var count int64
	tc.DB.Model(&models.College{}).Where("id = ?", input.CollegeID).Count(&count)
	if count == 0 {
		return domainError(c, services.ErrNotFound)
	}

	subject := models.Subject{CollegeID: input.CollegeID, Name: input.Name, Code: input.Code}
	if err := tc.DB.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subject",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subject created",
		"subject": subject,
	})
}

type CreateChapterInput struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=2,max=200"`
}

func (tc *TaxonomyController) CreateChapter(c *fiber.Ctx) error {
	var input CreateChapterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var count int64
	tc.DB.Model(&models.Subject{}).Where("id = ?", input.SubjectID).Count(&count)
	if count == 0 {
		return domainError(c, services.ErrNotFound)
	}

	var maxSeq int
	tc.DB.Model(&models.Chapter{}).Where("subject_id = ?", input.SubjectID).
		Select("COALESCE(MAX(sequence), 0)").Scan(&maxSeq)

	chapter := models.Chapter{SubjectID: input.SubjectID, Title: input.Title, Sequence: maxSeq + 1}
	if err := tc.DB.Create(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create chapter",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Chapter created",
		"chapter": chapter,
	})
}

type UpdateTaxonomyInput struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=200"`
	NameEn string `json:"name_en"`
	City   string `json:"city"`
	Title  string `json:"title" validate:"omitempty,min=2,max=200"`
	Code   string `json:"code" validate:"max=20"`
}

func (tc *TaxonomyController) UpdateUniversity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var input UpdateTaxonomyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var university models.University
	if err := tc.DB.First(&university, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}
	if input.Name != "" {
		university.Name = input.Name
	}
	if input.NameEn != "" {
		university.NameEn = input.NameEn
	}
	if input.City != "" {
		university.City = input.City
	}
	if err := tc.DB.Save(&university).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update university",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "University updated",
		"university": university,
	})
}

// DeleteUniversity removes an empty university; levels with children are
// protected so content is never orphaned.
func (tc *TaxonomyController) DeleteUniversity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid university ID",
		})
	}

	var university models.University
	if err := tc.DB.First(&university, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}

	var children int64
	tc.DB.Model(&models.College{}).Where("university_id = ?", id).Count(&children)
	if children > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف جامعة تحتوي على كليات",
		})
	}

	if err := tc.DB.Unscoped().Delete(&university).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete university",
		})
	}
	return c.JSON(fiber.Map{"message": "University deleted"})
}

func (tc *TaxonomyController) UpdateCollege(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var input UpdateTaxonomyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var college models.College
	if err := tc.DB.First(&college, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}
	if input.Name != "" {
		college.Name = input.Name
	}
	if err := tc.DB.Save(&college).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update college",
		})
	}

	return c.JSON(fiber.Map{
		"message": "College updated",
		"college": college,
	})
}

func (tc *TaxonomyController) DeleteCollege(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var college models.College
	if err := tc.DB.First(&college, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}

	var children int64
	tc.DB.Model(&models.Subject{}).Where("college_id = ?", id).Count(&children)
	if children > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف كلية تحتوي على مواد",
		})
	}

	if err := tc.DB.Unscoped().Delete(&college).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete college",
		})
	}
	return c.JSON(fiber.Map{"message": "College deleted"})
}

func (tc *TaxonomyController) UpdateSubject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var input UpdateTaxonomyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var subject models.Subject
	if err := tc.DB.First(&subject, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}
	if input.Name != "" {
		subject.Name = input.Name
	}
	if input.Code != "" {
		subject.Code = input.Code
	}
	if err := tc.DB.Save(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subject",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subject updated",
		"subject": subject,
	})
}

func (tc *TaxonomyController) DeleteSubject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var subject models.Subject
	if err := tc.DB.First(&subject, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}

	var children int64
	tc.DB.Model(&models.Chapter{}).Where("subject_id = ?", id).Count(&children)
	if children > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف مادة تحتوي على فصول",
		})
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("subject_id = ?", id).Delete(&models.SubjectModerator{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("subject_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&subject).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete subject",
		})
	}
	return c.JSON(fiber.Map{"message": "Subject deleted"})
}

func (tc *TaxonomyController) UpdateChapter(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chapter ID",
		})
	}

	var input UpdateTaxonomyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var chapter models.Chapter
	if err := tc.DB.First(&chapter, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}
	if input.Title != "" {
		chapter.Title = input.Title
	}
	if err := tc.DB.Save(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update chapter",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Chapter updated",
		"chapter": chapter,
	})
}

func (tc *TaxonomyController) DeleteChapter(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chapter ID",
		})
	}

	var chapter models.Chapter
	if err := tc.DB.First(&chapter, id).Error; err != nil {
		return domainError(c, services.ErrNotFound)
	}

	var canvases, quizzes int64
	tc.DB.Model(&models.Canvas{}).Where("chapter_id = ?", id).Count(&canvases)
	tc.DB.Model(&models.Quiz{}).Where("chapter_id = ?", id).Count(&quizzes)
	if canvases+quizzes > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف فصل يحتوي على محتوى",
		})
	}

	if err := tc.DB.Unscoped().Delete(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete chapter",
		})
	}
	return c.JSON(fiber.Map{"message": "Chapter deleted"})
}

type ReorderInput struct {
	Updates []services.SequenceUpdate `json:"updates" validate:"required,min=1,dive"`
}

func (tc *TaxonomyController) ReorderCanvases(c *fiber.Ctx) error {
	return tc.reorder(c, tc.Reorder.ReorderCanvases)
}

func (tc *TaxonomyController) ReorderQuizzes(c *fiber.Ctx) error {
	return tc.reorder(c, tc.Reorder.ReorderQuizzes)
}

func (tc *TaxonomyController) reorder(c *fiber.Ctx, apply func(uint, uint, []services.SequenceUpdate) error) error {
	userID := currentUserID(c)

	chapterID, err := strconv.Atoi(c.Params("chapterId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chapter ID",
		})
	}

	var input ReorderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := apply(userID, uint(chapterID), input.Updates); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Order updated"})
}
