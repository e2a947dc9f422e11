package purchasing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckDocumentsExactMatch(t *testing.T) {
	reqs := []DocRequirement{
		{Key: "commercial_invoice", Aliases: []string{"commercialInvoice"}},
		{Key: "packing_list", Aliases: []string{"packingList"}},
	}

	missing := CheckDocuments(StageOcean, reqs, []UploadedDocument{
		{Stage: StageOcean, DocumentType: "commercial_invoice"},
		{Stage: StageOcean, DocumentType: "packing_list"},
	})
	require.Empty(t, missing)
}

func TestCheckDocumentsReportsMissingLabels(t *testing.T) {
	reqs := []DocRequirement{
		{Key: "commercial_invoice"},
		{Key: "packing_list"},
	}

	missing := CheckDocuments(StageOcean, reqs, []UploadedDocument{
		{Stage: StageOcean, DocumentType: "commercial_invoice"},
	})
	require.Equal(t, []string{"Packing List"}, missing)

	missing = CheckDocuments(StageOcean, reqs, nil)
	require.Equal(t, []string{"Commercial Invoice", "Packing List"}, missing)
}

func TestCheckDocumentsAcceptsLegacyAliases(t *testing.T) {
	reqs := []DocRequirement{
		{Key: "bill_of_lading", Aliases: []string{"billOfLading", "bol"}},
	}

	for _, spelling := range []string{"bill_of_lading", "billOfLading", "bol"} {
		missing := CheckDocuments(StageOcean, reqs, []UploadedDocument{
			{Stage: StageOcean, DocumentType: spelling},
		})
		require.Empty(t, missing, "spelling %s", spelling)
	}
}

func TestCheckDocumentsAliasesAreNotAdditive(t *testing.T) {
	// One slot with two spellings is a single requirement: covering it with
	// either alias is enough, covering it twice changes nothing.
	reqs := []DocRequirement{
		{Key: "customs_declaration", Aliases: []string{"customsDeclaration"}},
		{Key: "delivery_order"},
	}

	missing := CheckDocuments(StageWarehouse, reqs, []UploadedDocument{
		{Stage: StageWarehouse, DocumentType: "customs_declaration"},
		{Stage: StageWarehouse, DocumentType: "customsDeclaration"},
	})
	require.Equal(t, []string{"Delivery Order"}, missing)
}

func TestCheckDocumentsIgnoresOtherStages(t *testing.T) {
	reqs := []DocRequirement{{Key: "proforma_invoice"}}

	missing := CheckDocuments(StageManufacturing, reqs, []UploadedDocument{
		{Stage: StageOcean, DocumentType: "proforma_invoice"},
	})
	require.Equal(t, []string{"Proforma Invoice"}, missing)
}

func TestDisplayLabelPrefersDeclaredLabel(t *testing.T) {
	require.Equal(t, "B/L", DocRequirement{Key: "bill_of_lading", Label: "B/L"}.DisplayLabel())
	require.Equal(t, "Bill Of Lading", DocRequirement{Key: "bill_of_lading"}.DisplayLabel())
}
