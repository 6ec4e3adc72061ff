package service

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/jbook-analytics/jbook-extract/dto"
	"github.com/jbook-analytics/jbook-extract/utils"
)

// Element-name aliases seen across R-3 XML exports. The schema varies by
// service and volume, so matching is tolerant rather than validated.
var (
	peElementNames      = []string{"ProgramElement", "PROGRAM_ELEMENT", "Pe", "PE"}
	projectElementNames = []string{"Project", "PROJECT", "Proj"}
	costElementNames    = []string{"CostCategory", "COST_CATEGORY", "Line", "COST_LINE", "CostItem"}

	peNumberChildren      = []string{"Number", "PROGRAM_ELEMENT_NUMBER", "PeNumber"}
	peNameChildren        = []string{"Name", "PROGRAM_ELEMENT_TITLE", "PeName"}
	projectNumberChildren = []string{"Number", "PROJECT_NUMBER"}
	projectNameChildren   = []string{"Name", "PROJECT_TITLE"}
	costNameChildren      = []string{"Name", "COST_CATEGORY", "LINE_NAME"}
)

// xmlNode is a generic element tree queryable by name alias.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// ParseXMLCostLines walks program-element > project > cost-category elements
// of an R-3 style XML export. Unparseable files yield zero records.
func ParseXMLCostLines(path string) []dto.CostLineRecord {
	var results []dto.CostLineRecord

	data, err := os.ReadFile(path)
	if err != nil {
		return results
	}
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return results
	}

	for _, pe := range findDescendants(root, peElementNames) {
		peNumber := firstNonEmpty(attrValue(pe, "number"), childText(pe, peNumberChildren))
		if peNumber == "" {
			continue
		}
		peName := firstNonEmpty(attrValue(pe, "name"), childText(pe, peNameChildren))

		for _, proj := range findDescendants(pe, projectElementNames) {
			projNumber := firstNonEmpty(attrValue(proj, "number"), childText(proj, projectNumberChildren))
			projName := firstNonEmpty(attrValue(proj, "name"), childText(proj, projectNameChildren))

			for _, cc := range findDescendants(proj, costElementNames) {
				ccName := firstNonEmpty(attrValue(cc, "name"), childText(cc, costNameChildren))

				results = append(results, dto.CostLineRecord{
					PENumber:       strings.TrimSpace(peNumber),
					PEName:         strings.TrimSpace(peName),
					ProjectNumber:  strings.TrimSpace(projNumber),
					ProjectName:    strings.TrimSpace(projName),
					CostCategory:   strings.TrimSpace(ccName),
					FY2023Cost:     utils.ParseFloatSafe(fyValue(cc, "FY2023")),
					FY2024Cost:     utils.ParseFloatSafe(fyValue(cc, "FY2024")),
					FY2025BaseCost: utils.ParseFloatSafe(firstNonEmpty(attrValue(cc, "FY2025Base"), childText(cc, []string{"FY2025Base", "FY2025_Base", "FY2025"}))),
				})
			}
		}
	}
	return results
}

// findDescendants collects every descendant element (the node itself
// included) whose local name matches one of the aliases, in document order.
func findDescendants(n xmlNode, names []string) []xmlNode {
	var found []xmlNode
	if nameMatches(n.XMLName.Local, names) {
		found = append(found, n)
	}
	for _, child := range n.Children {
		found = append(found, findDescendants(child, names)...)
	}
	return found
}

func nameMatches(local string, names []string) bool {
	for _, n := range names {
		if local == n {
			return true
		}
	}
	return false
}

func attrValue(n xmlNode, name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// childText returns the text of the first direct child matching an alias.
// Aliases are tried in order so the most common spelling wins.
func childText(n xmlNode, names []string) string {
	for _, name := range names {
		for _, child := range n.Children {
			if child.XMLName.Local == name {
				if t := strings.TrimSpace(child.Text); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

func fyValue(n xmlNode, name string) string {
	return firstNonEmpty(attrValue(n, name), childText(n, []string{name}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
