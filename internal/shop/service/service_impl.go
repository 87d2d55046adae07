package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/shopdesk/internal/shop/domain"
	"github.com/smallbiznis/shopdesk/internal/shopctx"
	"github.com/smallbiznis/shopdesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("shop.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Resolve(ctx context.Context) (domain.Shop, error) {
	if shopID, ok := shopctx.ShopIDFromContext(ctx); ok && shopID != 0 {
		item, err := s.repo.FindByID(ctx, s.db, shopID)
		if err != nil {
			return domain.Shop{}, err
		}
		if item == nil {
			return domain.Shop{}, domain.ErrNotFound
		}
		return *item, nil
	}

	item, err := s.repo.FindDefault(ctx, s.db)
	if err != nil {
		return domain.Shop{}, err
	}
	if item == nil {
		return domain.Shop{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateShopRequest) (domain.Shop, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Shop{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	shop := domain.Shop{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &shop); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Shop{}, domain.ErrAlreadyExists
		}
		return domain.Shop{}, err
	}

	return shop, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Shop, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Shop{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Shop{}, err
	}
	if item == nil {
		return domain.Shop{}, domain.ErrNotFound
	}
	return *item, nil
}
