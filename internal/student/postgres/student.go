package postgres

import (
	"errors"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/internal/student"
	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) student.Repository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(st *student.Student) error {
	return r.db.Create(st).Error
}

func (r *StudentRepository) GetByID(id int64, scope auth.BranchScope) (*student.Student, error) {
	var st student.Student
	err := scope.Apply(r.db.Where("id = ?", id)).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, student.ErrStudentNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *StudentRepository) List(scope auth.BranchScope, status, intake string, limit, offset int) ([]*student.Student, error) {
	var students []*student.Student
	q := scope.Apply(r.db.Model(&student.Student{}))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if intake != "" {
		q = q.Where("intake = ?", intake)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) Update(st *student.Student, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Model(&student.Student{}).Where("id = ?", st.ID)).
		Updates(map[string]interface{}{
			"name":          st.Name,
			"email":         st.Email,
			"phone":         st.Phone,
			"passport_no":   st.PassportNo,
			"intake":        st.Intake,
			"program":       st.Program,
			"university_id": st.UniversityID,
			"status":        st.Status,
			"updated_at":    st.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(id int64, scope auth.BranchScope) error {
	res := scope.Apply(r.db.Where("id = ?", id)).Delete(&student.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}
