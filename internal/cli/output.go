package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/format"
)

const (
	titleWidth = 48
	descWidth  = 72
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printBookmarks(w io.Writer, list []domain.Bookmark, owner bool, now time.Time) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No bookmarks found.")
		return err
	}

	tw := newTable(w)
	if owner {
		fmt.Fprintln(tw, "ID\tTITLE\tDOMAIN\tFOLDER\tTAGS\tVISIBILITY\tADDED")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tDOMAIN\tBY\tTAGS\tADDED")
	}
	for _, b := range list {
		title := b.Title
		if title == "" {
			title = b.URL
		}
		tags := strings.Join(b.TagNames(), ",")
		added := format.RelativeDate(b.CreatedAt, now)
		if owner {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				b.ID, format.Truncate(title, titleWidth), format.Domain(b.URL),
				b.Folder, tags, visibility(b.IsPublic), added)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, format.Truncate(title, titleWidth), format.Domain(b.URL),
			b.User.DisplayName(), tags, added)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s bookmark(s)\n", format.Count(len(list)))
	return err
}

func printBookmark(w io.Writer, b *domain.Bookmark, now time.Time) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", b.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "URL:\t%s\n", b.URL)
	if b.Description != nil && *b.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", format.Truncate(*b.Description, descWidth))
	}
	favicon := format.FaviconURL(b.URL)
	if b.Favicon != nil && *b.Favicon != "" {
		favicon = *b.Favicon
	}
	fmt.Fprintf(tw, "Favicon:\t%s\n", favicon)
	fmt.Fprintf(tw, "Folder:\t%s\n", b.Folder)
	fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(b.TagNames(), ", "))
	fmt.Fprintf(tw, "Visibility:\t%s\n", visibility(b.IsPublic))
	fmt.Fprintf(tw, "Added:\t%s\n", format.RelativeDate(b.CreatedAt, now))
	if b.UpdatedAt != "" && b.UpdatedAt != b.CreatedAt {
		fmt.Fprintf(tw, "Updated:\t%s\n", format.RelativeDate(b.UpdatedAt, now))
	}
	return tw.Flush()
}

func printUser(w io.Writer, u *domain.User, now time.Time) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	if u.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	}
	if u.AvatarURL != nil && *u.AvatarURL != "" {
		fmt.Fprintf(tw, "Avatar:\t%s\n", *u.AvatarURL)
	}
	if u.CreatedAt != "" {
		fmt.Fprintf(tw, "Member since:\t%s\n", format.RelativeDate(u.CreatedAt, now))
	}
	if u.LastLogin != nil {
		fmt.Fprintf(tw, "Last login:\t%s\n", format.RelativeDate(*u.LastLogin, now))
	}
	if u.TotalBookmarks != nil {
		fmt.Fprintf(tw, "Bookmarks:\t%s\n", format.Count(*u.TotalBookmarks))
	}
	if u.PublicBookmarks != nil {
		fmt.Fprintf(tw, "Public bookmarks:\t%s\n", format.Count(*u.PublicBookmarks))
	}
	return tw.Flush()
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: "invalid id " + strconv.Quote(raw)}
	}
	return id, nil
}

// prompt reads one line from in after printing label to out.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}
