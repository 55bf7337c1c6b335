package models

import "time"

// RowSource identifies how a batch's base rows were loaded.
type RowSource string

const (
	RowSourceExternalDB RowSource = "ExternalDB"
	RowSourceExcel      RowSource = "Excel"
)

// Row is one session-data record of process/layer/defect metadata. Rows that
// have not been persisted yet carry a negative temporary RowID.
type Row struct {
	RowID              int64     `db:"row_id" json:"rowId"`
	BatchID            string    `db:"batch_id" json:"batchId,omitempty"`
	Process            string    `db:"process" json:"process" validate:"required"`
	Layer              string    `db:"layer" json:"layer" validate:"required"`
	DefectType         string    `db:"defect_type" json:"defectType" validate:"required"`
	OperationList      string    `db:"operation_list" json:"operationList"`
	ClassType          *string   `db:"class_type" json:"classType"`
	Product            *string   `db:"product" json:"product"`
	EntityConfidence   *int      `db:"entity_confidence" json:"entityConfidence"`
	Comments           *string   `db:"comments" json:"comments"`
	GenericData1       *string   `db:"generic_data1" json:"genericData1"`
	GenericData2       *string   `db:"generic_data2" json:"genericData2"`
	GenericData3       *string   `db:"generic_data3" json:"genericData3"`
	EdiAttribution     *string   `db:"edi_attribution" json:"ediAttribution"`
	EdiAttributionList *string   `db:"edi_attribution_list" json:"ediAttributionList"`
	SecurityCode       *int      `db:"security_code" json:"securityCode"`
	OriginalID         *int      `db:"original_id" json:"originalId"`
	LastModified       time.Time `db:"last_modified" json:"lastModified"`
	LastModifiedBy     string    `db:"last_modified_by" json:"lastModifiedBy"`
}

// Clone returns a deep copy so pointer fields are never shared between views.
func (r Row) Clone() Row {
	out := r
	out.ClassType = cloneString(r.ClassType)
	out.Product = cloneString(r.Product)
	out.EntityConfidence = cloneInt(r.EntityConfidence)
	out.Comments = cloneString(r.Comments)
	out.GenericData1 = cloneString(r.GenericData1)
	out.GenericData2 = cloneString(r.GenericData2)
	out.GenericData3 = cloneString(r.GenericData3)
	out.EdiAttribution = cloneString(r.EdiAttribution)
	out.EdiAttributionList = cloneString(r.EdiAttributionList)
	out.SecurityCode = cloneInt(r.SecurityCode)
	out.OriginalID = cloneInt(r.OriginalID)
	return out
}

// IsTemporary reports whether the row was created client side and not persisted.
func (r Row) IsTemporary() bool {
	return r.RowID < 0
}

// RowQuery selects rows from the source table when a batch is created.
type RowQuery struct {
	Process   string `json:"process" validate:"required"`
	Layer     string `json:"layer" validate:"required"`
	Operation string `json:"operation"`
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	i := *v
	return &i
}
