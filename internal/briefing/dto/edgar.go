package dto

import "encoding/json"

// EdgarSearchResponse models the EDGAR full-text search envelope.
type EdgarSearchResponse struct {
	Hits EdgarHitsWrapper `json:"hits"`
}

// EdgarHitsWrapper tolerates both {"hits":{"hits":[...]}} and a bare list.
type EdgarHitsWrapper struct {
	Hits []EdgarHit `json:"hits"`
}

// UnmarshalJSON accepts either the nested wrapper object or a plain array.
func (w *EdgarHitsWrapper) UnmarshalJSON(data []byte) error {
	var list []EdgarHit
	if err := json.Unmarshal(data, &list); err == nil {
		w.Hits = list
		return nil
	}
	type alias EdgarHitsWrapper
	var inner alias
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	w.Hits = inner.Hits
	return nil
}

// EdgarHit is one search hit.
type EdgarHit struct {
	Source EdgarFilingSource `json:"_source"`
}

// EdgarFilingSource is the filing record inside a hit.
type EdgarFilingSource struct {
	Adsh         string   `json:"adsh"`
	Form         string   `json:"form"`
	FileType     string   `json:"file_type"`
	RootForms    []string `json:"root_forms"`
	FileDate     string   `json:"file_date"`
	DateFiled    string   `json:"date_filed"`
	DisplayNames []string `json:"display_names"`
	EntityName   string   `json:"entity_name"`
	Ciks         []string `json:"ciks"`
	Items        []string `json:"items"`
}
