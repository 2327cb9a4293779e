package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
	"github.com/bitfantasy/nimo-wms/internal/wms/testutil"
)

func setupMaterialTest(t *testing.T) *MaterialService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewMaterialService(repos.Material)
}

func TestCreateUnitBaseFactorForced(t *testing.T) {
	svc := setupMaterialTest(t)

	base, err := svc.CreateUnit(UnitRequest{
		Code:             "PCS",
		Name:             "个",
		ConversionFactor: decimal.NewFromInt(5), // 基础单位忽略传入因子
		IsBaseUnit:       true,
	})
	if err != nil {
		t.Fatalf("CreateUnit failed: %v", err)
	}
	if !base.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Base unit factor = %s, want 1", base.ConversionFactor)
	}

	if _, err := svc.CreateUnit(UnitRequest{
		Code:             "BOX",
		Name:             "箱",
		ConversionFactor: decimal.Zero,
	}); err == nil {
		t.Error("Zero conversion factor should be rejected")
	}

	box, err := svc.CreateUnit(UnitRequest{
		Code:             "BOX",
		Name:             "箱",
		ConversionFactor: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateUnit box failed: %v", err)
	}

	// 基础单位因子不可改，普通单位可以
	if _, err := svc.UpdateUnit(base.ID, UnitRequest{
		Code: "PCS", Name: "个", ConversionFactor: decimal.NewFromInt(2),
	}); err == nil {
		t.Error("Changing base unit factor should be rejected")
	}
	updated, err := svc.UpdateUnit(box.ID, UnitRequest{
		Code: "BOX", Name: "箱", ConversionFactor: decimal.NewFromInt(12),
	})
	if err != nil {
		t.Fatalf("UpdateUnit box failed: %v", err)
	}
	if !updated.ConversionFactor.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Updated factor = %s, want 12", updated.ConversionFactor)
	}
}

func TestMaterialBaseUnitImmutable(t *testing.T) {
	svc := setupMaterialTest(t)

	pcs, err := svc.CreateUnit(UnitRequest{Code: "PCS", Name: "个", IsBaseUnit: true})
	if err != nil {
		t.Fatalf("CreateUnit failed: %v", err)
	}
	kg, err := svc.CreateUnit(UnitRequest{Code: "KG", Name: "千克", IsBaseUnit: true})
	if err != nil {
		t.Fatalf("CreateUnit failed: %v", err)
	}
	cat, err := svc.CreateCategory(CategoryRequest{Code: "RAW", Name: "原材料"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	m, err := svc.Create(MaterialRequest{
		Code:       "MAT-001",
		Name:       "螺丝",
		CategoryID: cat.ID,
		BaseUnitID: pcs.ID,
	})
	if err != nil {
		t.Fatalf("Create material failed: %v", err)
	}

	// 重复编码
	if _, err := svc.Create(MaterialRequest{
		Code:       "MAT-001",
		Name:       "另一个螺丝",
		CategoryID: cat.ID,
		BaseUnitID: pcs.ID,
	}); err == nil || !strings.Contains(err.Error(), "已存在") {
		t.Errorf("Duplicate code: err = %v, want 已存在", err)
	}

	// 基础单位不可修改
	if _, err := svc.Update(m.ID, MaterialRequest{
		Code:       "MAT-001",
		Name:       "螺丝",
		CategoryID: cat.ID,
		BaseUnitID: kg.ID,
	}); err == nil {
		t.Error("Changing material base unit should be rejected")
	}

	// 最高库存低于最低库存
	max := decimal.NewFromInt(5)
	if _, err := svc.Update(m.ID, MaterialRequest{
		Code:       "MAT-001",
		Name:       "螺丝",
		CategoryID: cat.ID,
		BaseUnitID: pcs.ID,
		MinStock:   decimal.NewFromInt(10),
		MaxStock:   &max,
	}); err == nil {
		t.Error("MaxStock below MinStock should be rejected")
	}
}

func TestDeactivateCategoryWithMaterials(t *testing.T) {
	svc := setupMaterialTest(t)

	pcs, err := svc.CreateUnit(UnitRequest{Code: "PCS", Name: "个", IsBaseUnit: true})
	if err != nil {
		t.Fatalf("CreateUnit failed: %v", err)
	}
	cat, err := svc.CreateCategory(CategoryRequest{Code: "RAW", Name: "原材料"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := svc.Create(MaterialRequest{
		Code:       "MAT-C-001",
		Name:       "物料",
		CategoryID: cat.ID,
		BaseUnitID: pcs.ID,
	}); err != nil {
		t.Fatalf("Create material failed: %v", err)
	}

	if err := svc.DeactivateCategory(cat.ID); err == nil {
		t.Error("Deactivating category with materials should be rejected")
	}

	empty, err := svc.CreateCategory(CategoryRequest{Code: "EMPTY", Name: "空分类"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := svc.DeactivateCategory(empty.ID); err != nil {
		t.Errorf("Deactivating empty category failed: %v", err)
	}
}
