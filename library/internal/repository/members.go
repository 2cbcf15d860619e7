package repository

import (
	"context"

	"github.com/jackc/pgerrcode"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/errs"
	"github.com/polyakovs/library-lending/library/internal/model"
)

func (r *repository) AddMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	query, args, err := qb.Insert(memberTableName).
		Columns("name", "email").
		Values(req.Name, req.Email).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}

	var member model.Member
	if err := r.db.GetContext(ctx, &member, query, args...); err != nil {
		if pgErrCode(err) == pgerrcode.UniqueViolation {
			return model.Member{}, errs.ErrDuplicateEmail
		}
		r.log.Error("AddMember", zap.String("q", query), zap.Any("args", args))
		return model.Member{}, err
	}
	return member, nil
}

func (r *repository) ListMembers(ctx context.Context) ([]model.Member, error) {
	query, args, err := qb.Select("id", "name", "email", "joined_date").
		From(memberTableName).
		OrderBy("joined_date desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var members []model.Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}
